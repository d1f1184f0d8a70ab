package domain

import "time"

// Product is the sellable article; price is whole rupiah.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Variant is one size/color combination of a product, the unit of stock and sale.
type Variant struct {
	ID           string    `json:"id"`
	Product      Product   `json:"product"`
	Size         string    `json:"size"`
	Color        string    `json:"color"`
	Barcode      string    `json:"barcode,omitempty"`
	Stock        int       `json:"stock"`
	SellingPrice *int64    `json:"sellingPrice,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Price returns the variant override when set, else the product price.
func (v Variant) Price() int64 {
	if v.SellingPrice != nil {
		return *v.SellingPrice
	}
	return v.Product.Price
}

// Label is the human-readable "Name Size/Color" form used on receipts.
func (v Variant) Label() string {
	return v.Product.Name + " " + v.Size + "/" + v.Color
}
