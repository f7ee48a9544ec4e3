package entity

// Canonical ustun nomlari (normalizatsiyadan keyin)
const (
	ColPurchaseID       = "PURCHASE_ID"
	ColProductID        = "PRODUCT_ID"
	ColQuantity         = "QUANTITY"
	ColPurchaseDateTime = "PURCHASE_DATE_TIME"
	ColDepartmentName   = "DEPARTMENT_NAME"
	ColHeightInches     = "HEIGHT_INCHES"
	ColWidthInches      = "WIDTH_INCHES"
	ColDepthInches      = "DEPTH_INCHES"
)

// LineItem xarid qatori (purchase_lines.csv)
type LineItem struct {
	PurchaseID string
	ProductID  string
	Quantity   NullFloat
}

// PurchaseHeader xarid sarlavhasi (purchase_header.csv)
type PurchaseHeader struct {
	PurchaseID   string
	PurchaseTime NullTime
}

// Product katalog mahsuloti (product.csv)
type Product struct {
	ProductID  string
	Department NullString
	Height     NullFloat
	Width      NullFloat
	Depth      NullFloat
	Volume     NullFloat // Height × Width × Depth
}

// EnrichedLine LineItem → Product → PurchaseHeader join natijasi
type EnrichedLine struct {
	PurchaseID   string
	ProductID    string
	Quantity     NullFloat
	Department   NullString
	Volume       NullFloat
	TotalVolume  NullFloat // Volume × Quantity
	PurchaseTime NullTime
	Hour         NullInt
}
