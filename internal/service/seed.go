package service

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/octobees/engagesphere/api/internal/entity"
)

// SeedFormat identifies the encoding of a customer seed file.
type SeedFormat string

// Supported seed encodings.
const (
	SeedFormatJSON SeedFormat = "json"
	SeedFormatYAML SeedFormat = "yaml"
	SeedFormatCSV  SeedFormat = "csv"
)

// SeedFormatFromPath picks the seed format from the file extension.
func SeedFormatFromPath(path string) (SeedFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SeedFormatJSON, nil
	case ".yaml", ".yml":
		return SeedFormatYAML, nil
	case ".csv":
		return SeedFormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

// SeedValidationError indicates that the seed payload is invalid.
type SeedValidationError struct {
	Message string
}

// Error implements the error interface.
func (e SeedValidationError) Error() string {
	return e.Message
}

type seedRecord struct {
	ID          int          `json:"id" yaml:"id" validate:"gte=0"`
	Name        string       `json:"name" yaml:"name" validate:"required"`
	Employees   int          `json:"employees" yaml:"employees" validate:"gte=0"`
	ContactInfo *seedContact `json:"contactInfo" yaml:"contactInfo"`
	Size        string       `json:"size" yaml:"size" validate:"omitempty,customer_size"`
	Industry    string       `json:"industry" yaml:"industry" validate:"required,customer_industry"`
	Address     *seedAddress `json:"address" yaml:"address"`
}

type seedContact struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Email string `json:"email" yaml:"email" validate:"required,email"`
	Phone string `json:"phone" yaml:"phone" validate:"omitempty,e164"`
}

type seedAddress struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	ZipCode string `json:"zipCode" yaml:"zipCode"`
	Country string `json:"country" yaml:"country"`
}

// CustomerLoader turns seed files into a validated customer directory.
type CustomerLoader struct {
	validate *validator.Validate
	contacts *ContactNormalizer
}

// NewCustomerLoader builds a loader; a nil normalizer uses US phone numbering.
func NewCustomerLoader(contacts *ContactNormalizer) *CustomerLoader {
	if contacts == nil {
		contacts = NewContactNormalizer("")
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("customer_size", func(fl validator.FieldLevel) bool {
		_, ok := entity.ParseSize(fl.Field().String())
		return ok
	})
	v.RegisterValidation("customer_industry", func(fl validator.FieldLevel) bool {
		_, ok := entity.ParseIndustry(fl.Field().String())
		return ok
	})

	return &CustomerLoader{validate: v, contacts: contacts}
}

// LoadFile reads the seed at path, choosing the decoder from its extension.
func (l *CustomerLoader) LoadFile(path string) ([]entity.Customer, error) {
	format, err := SeedFormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return l.Load(f, format)
}

// Load decodes and validates a seed payload. Customers keep the order of the payload.
func (l *CustomerLoader) Load(r io.Reader, format SeedFormat) ([]entity.Customer, error) {
	var (
		records []seedRecord
		err     error
	)

	switch format {
	case SeedFormatJSON:
		err = json.NewDecoder(r).Decode(&records)
	case SeedFormatYAML:
		err = yaml.NewDecoder(r).Decode(&records)
	case SeedFormatCSV:
		records, err = readCSVRecords(r)
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}
	if errors.Is(err, io.EOF) {
		return nil, SeedValidationError{Message: "seed file is empty"}
	}
	if err != nil {
		var seedErr SeedValidationError
		if errors.As(err, &seedErr) {
			return nil, seedErr
		}
		return nil, fmt.Errorf("decode %s seed: %w", format, err)
	}

	return l.buildCustomers(records)
}

func (l *CustomerLoader) buildCustomers(records []seedRecord) ([]entity.Customer, error) {
	seen := make(map[int]int, len(records))
	maxID := 0
	for i := range records {
		rec := &records[i]
		rec.Name = strings.TrimSpace(rec.Name)
		rec.Size = strings.TrimSpace(rec.Size)
		rec.Industry = strings.TrimSpace(rec.Industry)
		if rec.ContactInfo != nil {
			normalized := l.contacts.Normalize(entity.ContactInfo{
				Name:  rec.ContactInfo.Name,
				Email: rec.ContactInfo.Email,
				Phone: rec.ContactInfo.Phone,
			})
			rec.ContactInfo = &seedContact{Name: normalized.Name, Email: normalized.Email, Phone: normalized.Phone}
		}

		if err := l.validate.Struct(rec); err != nil {
			return nil, describeValidation(i+1, err)
		}

		if rec.ID == 0 {
			continue
		}
		if first, dup := seen[rec.ID]; dup {
			return nil, SeedValidationError{Message: fmt.Sprintf("duplicate id %d on records %d and %d", rec.ID, first, i+1)}
		}
		seen[rec.ID] = i + 1
		maxID = max(maxID, rec.ID)
	}

	customers := make([]entity.Customer, 0, len(records))
	for _, rec := range records {
		id := rec.ID
		if id == 0 {
			maxID++
			id = maxID
		}

		size := entity.SizeForEmployees(rec.Employees)
		if rec.Size != "" {
			size, _ = entity.ParseSize(rec.Size)
		}
		industry, _ := entity.ParseIndustry(rec.Industry)

		customer := entity.Customer{
			ID:        id,
			Name:      rec.Name,
			Employees: rec.Employees,
			Size:      size,
			Industry:  industry,
		}
		if rec.ContactInfo != nil {
			customer.ContactInfo = &entity.ContactInfo{
				Name:  rec.ContactInfo.Name,
				Email: rec.ContactInfo.Email,
				Phone: rec.ContactInfo.Phone,
			}
		}
		if rec.Address != nil {
			customer.Address = &entity.Address{
				Street:  strings.TrimSpace(rec.Address.Street),
				City:    strings.TrimSpace(rec.Address.City),
				State:   strings.TrimSpace(rec.Address.State),
				ZipCode: strings.TrimSpace(rec.Address.ZipCode),
				Country: strings.TrimSpace(rec.Address.Country),
			}
		}
		customers = append(customers, customer)
	}

	return customers, nil
}

func describeValidation(record int, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate record %d: %w", record, err)
	}
	fe := fieldErrs[0]
	return SeedValidationError{Message: fmt.Sprintf("record %d: invalid %s (%s)", record, fe.Field(), fe.Tag())}
}

var requiredCSVHeaders = []string{"name", "employees", "industry"}

func readCSVRecords(r io.Reader) ([]seedRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index, err := buildHeaderIndex(header)
	if err != nil {
		return nil, err
	}
	column := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := []seedRecord{}
	rowNum := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rowNum++

		id, parseErr := parseOptionalInt(column(row, "id"))
		if parseErr != nil {
			return nil, SeedValidationError{Message: fmt.Sprintf("invalid id value on row %d", rowNum)}
		}
		employees, parseErr := parseOptionalInt(column(row, "employees"))
		if parseErr != nil || employees == nil {
			return nil, SeedValidationError{Message: fmt.Sprintf("invalid employees value on row %d", rowNum)}
		}

		rec := seedRecord{
			Name:      column(row, "name"),
			Employees: *employees,
			Size:      column(row, "size"),
			Industry:  column(row, "industry"),
		}
		if id != nil {
			rec.ID = *id
		}

		contact := seedContact{
			Name:  column(row, "contact_name"),
			Email: column(row, "contact_email"),
			Phone: column(row, "contact_phone"),
		}
		if contact != (seedContact{}) {
			rec.ContactInfo = &contact
		}

		address := seedAddress{
			Street:  column(row, "street"),
			City:    column(row, "city"),
			State:   column(row, "state"),
			ZipCode: column(row, "zip_code"),
			Country: column(row, "country"),
		}
		if address != (seedAddress{}) {
			rec.Address = &address
		}

		records = append(records, rec)
	}

	return records, nil
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, SeedValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
