package classifier

// Categories is the fixed label table. Model output index i maps to Categories[i].
var Categories = []string{
	"Search Engine",
	"Consumer Electronics",
	"Software",
	"E-commerce",
}

// DefaultCategory is returned for empty input or when no usable model is loaded.
const DefaultCategory = "Uncategorized"
