package domain

// ProductRef carries the catalogue fields a history row displays.
type ProductRef struct {
	Name     string
	Category string
	Image    string
}

// Row is a purchase joined with catalogue display fields.
type Row struct {
	Purchase
	Product ProductRef
	Known   bool
}

// Resolver looks a product up in the catalogue cache.
type Resolver func(productID int64) (ProductRef, bool)

// Rows joins purchases with the catalogue. Unknown products and a nil
// resolver yield blank display fields.
func Rows(purchases []Purchase, resolve Resolver) []Row {
	rows := make([]Row, 0, len(purchases))
	for _, p := range purchases {
		row := Row{Purchase: p}
		if resolve != nil {
			row.Product, row.Known = resolve(p.ProductID)
		}
		rows = append(rows, row)
	}
	return rows
}
