package entity

// Size classifies a customer by head count.
type Size string

// Supported customer sizes.
const (
	SizeSmall               Size = "Small"
	SizeMedium              Size = "Medium"
	SizeEnterprise          Size = "Enterprise"
	SizeLargeEnterprise     Size = "Large Enterprise"
	SizeVeryLargeEnterprise Size = "Very Large Enterprise"
)

// Sizes lists every supported size, smallest first.
var Sizes = []Size{SizeSmall, SizeMedium, SizeEnterprise, SizeLargeEnterprise, SizeVeryLargeEnterprise}

// Industry is the business sector a customer operates in.
type Industry string

// Supported industries.
const (
	IndustryLogistics  Industry = "Logistics"
	IndustryRetail     Industry = "Retail"
	IndustryTechnology Industry = "Technology"
	IndustryHR         Industry = "HR"
	IndustryFinance    Industry = "Finance"
)

// Industries lists every supported industry.
var Industries = []Industry{IndustryLogistics, IndustryRetail, IndustryTechnology, IndustryHR, IndustryFinance}

// ParseSize returns the size matching raw exactly.
func ParseSize(raw string) (Size, bool) {
	return parseEnum(raw, Sizes)
}

// ParseIndustry returns the industry matching raw exactly.
func ParseIndustry(raw string) (Industry, bool) {
	return parseEnum(raw, Industries)
}

// SizeForEmployees derives the size bucket from a head count.
func SizeForEmployees(employees int) Size {
	switch {
	case employees < 100:
		return SizeSmall
	case employees < 1000:
		return SizeMedium
	case employees < 10000:
		return SizeEnterprise
	case employees < 50000:
		return SizeLargeEnterprise
	default:
		return SizeVeryLargeEnterprise
	}
}

// ContactInfo holds the primary contact person of a customer.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Address is the postal address of a customer.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Customer represents a business account listed in the directory.
// ContactInfo and Address serialize as null when unknown so every key is always present.
type Customer struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Employees   int          `json:"employees"`
	ContactInfo *ContactInfo `json:"contactInfo"`
	Size        Size         `json:"size"`
	Industry    Industry     `json:"industry"`
	Address     *Address     `json:"address"`
}

func parseEnum[T ~string](raw string, allowed []T) (T, bool) {
	for _, candidate := range allowed {
		if string(candidate) == raw {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}
