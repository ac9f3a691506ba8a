package domain

type (
	Product struct {
		ID                 int      `json:"id"`
		Title              string   `json:"title"`
		Description        string   `json:"description"`
		Price              float64  `json:"price"`
		DiscountPercentage float64  `json:"discountPercentage,omitempty"`
		Rating             float64  `json:"rating"`
		Stock              int      `json:"stock"`
		Brand              string   `json:"brand"`
		Category           string   `json:"category"`
		Thumbnail          string   `json:"thumbnail"`
		Images             []string `json:"images,omitempty"`
	}

	// ProductDraft is a product without a server-assigned identifier,
	// used as the body of create and update calls.
	ProductDraft struct {
		Title              string   `json:"title"`
		Description        string   `json:"description"`
		Price              float64  `json:"price"`
		DiscountPercentage float64  `json:"discountPercentage,omitempty"`
		Rating             float64  `json:"rating"`
		Stock              int      `json:"stock"`
		Brand              string   `json:"brand"`
		Category           string   `json:"category"`
		Thumbnail          string   `json:"thumbnail"`
		Images             []string `json:"images,omitempty"`
	}

	ProductPage struct {
		Products []Product
		Total    int
		Skip     int
		Limit    int
	}
)

// Product builds the product the draft describes under the given id.
func (d ProductDraft) Product(id int) Product {
	return Product{
		ID:                 id,
		Title:              d.Title,
		Description:        d.Description,
		Price:              d.Price,
		DiscountPercentage: d.DiscountPercentage,
		Rating:             d.Rating,
		Stock:              d.Stock,
		Brand:              d.Brand,
		Category:           d.Category,
		Thumbnail:          d.Thumbnail,
		Images:             d.Images,
	}
}

// PageQuery addresses one page of the remote catalog.
// An empty Query means no search; CategoryAll (or empty) means no
// category narrowing.
type PageQuery struct {
	Limit    int
	Skip     int
	Query    string
	Category string
}

const CategoryAll = "all"

// ViewFilter narrows the accumulated product sequence on read.
// Nil price bounds are unbounded; bounds are inclusive.
type ViewFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// ProductsSnapshot is the persisted slice of the product store state.
type ProductsSnapshot struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
	Query    string    `json:"query"`
	Category string    `json:"category"`
}

// ProductsState is the snapshot plus the volatile flags.
type ProductsState struct {
	ProductsSnapshot
	Loading bool
	Err     string
}

type CreateStatus int

const (
	// CreatePersisted: the record is durable on the remote catalog
	// under a server-assigned id.
	CreatePersisted CreateStatus = iota
	// CreateLocalOnly: the remote call failed and the record exists
	// only in local state under a synthesized id.
	CreateLocalOnly
)

func (s CreateStatus) String() string {
	if s == CreateLocalOnly {
		return "local_only"
	}
	return "persisted"
}

// CreateResult distinguishes a durable record from a client-only
// placeholder after a create.
type CreateResult struct {
	Status  CreateStatus
	Product Product
}
