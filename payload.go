package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// MaxDeleteBatch is the largest number of names one deletion request may carry.
const MaxDeleteBatch = 50

// MaxFileNameLength is the longest accepted file name, in characters.
const MaxFileNameLength = 255

// Kind tags a classified request body.
type Kind string

const (
	KindUpload   Kind = "upload"
	KindDownload Kind = "download"
	KindDeletion Kind = "deletion"
)

// Payload is a classified and validated request body. It is implemented only by
// UploadRequest, DownloadRequest and DeletionRequest.
type Payload interface {
	Kind() Kind
	FileCategory() Category
	isPayload()
}

// UploadRequest stores base64 file contents under FileName.
type UploadRequest struct {
	Category  Category `validate:"filecategory"`
	FileName  string   `validate:"required,max=255"`
	File      string   `validate:"required"`
	Timestamp *float64
}

// DownloadRequest mirrors the content at DownloadURL under FileName.
type DownloadRequest struct {
	Category    Category `validate:"filecategory"`
	FileName    string   `validate:"required,max=255"`
	DownloadURL string   `validate:"required,absurl"`
	Timestamp   *float64
}

// DeletionRequest removes FileNames from the category bucket.
type DeletionRequest struct {
	Category  Category `validate:"filecategory"`
	FileNames []string `validate:"required,min=1,max=50,dive,required,max=255"`
	Timestamp *float64
}

func (UploadRequest) Kind() Kind   { return KindUpload }
func (DownloadRequest) Kind() Kind { return KindDownload }
func (DeletionRequest) Kind() Kind { return KindDeletion }

func (r UploadRequest) FileCategory() Category   { return r.Category }
func (r DownloadRequest) FileCategory() Category { return r.Category }
func (r DeletionRequest) FileCategory() Category { return r.Category }

func (UploadRequest) isPayload()   {}
func (DownloadRequest) isPayload() {}
func (DeletionRequest) isPayload() {}

const (
	keyFileCategory = "fileCategory"
	keyFileName     = "fileName"
	keyFile         = "file"
	keyDownloadURL  = "downloadUrl"
	keyFileNames    = "fileNames"
	keyTimestamp    = "timestamp"
)

var requiredKeys = map[Kind][]string{
	KindUpload:   {keyFileCategory, keyFileName, keyFile},
	KindDownload: {keyFileCategory, keyFileName, keyDownloadURL},
	KindDeletion: {keyFileCategory, keyFileNames},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("filecategory", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && u.IsAbs()
	})
	return v
}

// Classify parses a raw JSON body and narrows it to exactly one payload variant.
//
// A variant matches when all of its required keys are present. Bodies matching no
// variant, or more than one, are rejected: ambiguity is never resolved by priority.
// The matched variant is then validated field by field. Every failure wraps
// ErrInvalidInput.
func Classify(raw []byte) (Payload, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("classify: body is not a JSON object: %w", ErrInvalidInput)
	}
	if obj == nil {
		return nil, fmt.Errorf("classify: body is null: %w", ErrInvalidInput)
	}

	var matched []Kind
	for _, kind := range []Kind{KindUpload, KindDownload, KindDeletion} {
		if hasKeys(obj, requiredKeys[kind]) {
			matched = append(matched, kind)
		}
	}

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("classify: body matches no request shape: %w", ErrInvalidInput)
	case 1:
	default:
		return nil, fmt.Errorf("classify: body matches %d request shapes %v: %w", len(matched), matched, ErrInvalidInput)
	}

	p, err := decode(matched[0], obj)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w: %w", matched[0], ErrInvalidInput, err)
	}

	if err := Validate(p); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	return p, nil
}

// Validate checks the fields of a payload built in code, as Classify does for
// decoded bodies. Failures wrap ErrInvalidInput.
func Validate(p Payload) error {
	if p == nil {
		return fmt.Errorf("validate: nil payload: %w", ErrInvalidInput)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%s: %w: %w", p.Kind(), ErrInvalidInput, err)
	}
	return nil
}

// AllowedFor reports whether a payload kind may be sent with the given HTTP method.
func AllowedFor(method string, p Payload) bool {
	switch method {
	case http.MethodPut:
		return p.Kind() == KindUpload || p.Kind() == KindDownload
	case http.MethodDelete:
		return p.Kind() == KindDeletion
	default:
		return false
	}
}

func hasKeys(obj map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}

func decode(kind Kind, obj map[string]json.RawMessage) (Payload, error) {
	var (
		category  string
		timestamp *float64
	)

	if err := field(obj, keyFileCategory, &category); err != nil {
		return nil, err
	}
	// timestamp is informational; anything but a number is dropped.
	if raw, ok := obj[keyTimestamp]; ok && string(raw) != "null" {
		var ts float64
		if json.Unmarshal(raw, &ts) == nil {
			timestamp = &ts
		}
	}

	switch kind {
	case KindUpload:
		r := &UploadRequest{Category: Category(category), Timestamp: timestamp}
		if err := errors.Join(field(obj, keyFileName, &r.FileName), field(obj, keyFile, &r.File)); err != nil {
			return nil, err
		}
		return r, nil
	case KindDownload:
		r := &DownloadRequest{Category: Category(category), Timestamp: timestamp}
		if err := errors.Join(field(obj, keyFileName, &r.FileName), field(obj, keyDownloadURL, &r.DownloadURL)); err != nil {
			return nil, err
		}
		return r, nil
	case KindDeletion:
		r := &DeletionRequest{Category: Category(category), Timestamp: timestamp}
		if err := field(obj, keyFileNames, &r.FileNames); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

// field decodes obj[key] into dst. Keys are matched exactly, unlike struct decoding
// which folds case. JSON null is rejected for every field.
func field(obj map[string]json.RawMessage, key string, dst any) error {
	raw := obj[key]
	if string(raw) == "null" {
		return fmt.Errorf("%s: must not be null", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
