package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/sushihentaime/nightblog/internal/blogservice"
	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
)

type envelope map[string]any

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	json, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(json)

	return nil
}

func (app *application) readParam(r *http.Request, key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// maxFormSize leaves room for the text fields next to a maximum size image.
const maxFormSize = mediaservice.MaxUploadSize + 1<<20

// parseForm reads a multipart or urlencoded body into r.Form.
func (app *application) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxFormSize)
	} else {
		err = r.ParseForm()
	}

	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("request body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return fmt.Errorf("request body is not a valid form: %w", err)
		}
	}

	return nil
}

// readFormFile returns the uploaded file for field, or nil when the field is absent or empty.
func (app *application) readFormFile(r *http.Request, field string) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, nil
	}

	return io.ReadAll(io.LimitReader(file, mediaservice.MaxUploadSize+1))
}

// readBool parses a form flag. An absent flag is false.
func (app *application) readBool(r *http.Request, key string, v *common.Validator) bool {
	s := strings.TrimSpace(r.PostFormValue(key))
	if s == "" {
		return false
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		v.AddError(key, "must be true or false")
		return false
	}

	return b
}

func (app *application) readInt(qs map[string][]string, key string, defaultValue int, v *common.Validator) int {
	values, ok := qs[key]
	if !ok || len(values) == 0 || values[0] == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(values[0])
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}

	return i
}

func (app *application) readListBlogsRequest(r *http.Request) (blogservice.ListBlogsRequest, error) {
	qs := r.URL.Query()
	v := common.NewValidator()

	req := blogservice.ListBlogsRequest{
		Search: qs.Get("search"),
		Skip:   app.readInt(qs, "skip", 0, v),
		Limit:  app.readInt(qs, "limit", blogservice.DefaultLimit, v),
	}

	// zero would otherwise fall back to the default
	if qs.Get("limit") != "" && req.Limit == 0 {
		v.AddError("limit", "must be between 1 and 100")
	}

	if !v.Valid() {
		return req, v.ValidationError()
	}

	return req, nil
}

// readBlogRequest reads the create/update form: title, content, is_published and an optional
// cover_image file.
func (app *application) readBlogRequest(r *http.Request) (*blogservice.BlogRequest, error) {
	v := common.NewValidator()

	req := &blogservice.BlogRequest{
		Title:       r.PostFormValue("title"),
		Content:     r.PostFormValue("content"),
		IsPublished: app.readBool(r, "is_published", v),
	}

	if !v.Valid() {
		return nil, v.ValidationError()
	}

	cover, err := app.readFormFile(r, "cover_image")
	if err != nil {
		return nil, err
	}
	req.Cover = cover

	return req, nil
}
