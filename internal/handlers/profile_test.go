package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/internal/pagination"
	"github.com/diewo77/go-profiles/internal/services"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartRequest(t *testing.T, method, target string, fields [][2]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("profile_picture", "me.png")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		fw.Write(file)
	}
	mw.Close()
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withID(req *http.Request, id string) *http.Request {
	req.SetPathValue("id", id)
	return req
}

func TestProfileCreate_Multipart(t *testing.T) {
	var got services.ProfileInput
	svc := &mockProfileService{
		upsertFunc: func(_ context.Context, in services.ProfileInput) (*services.ProfileView, error) {
			got = in
			return &services.ProfileView{ID: 1, User: services.UserView{Username: in.Username}}, nil
		},
	}
	req := multipartRequest(t, http.MethodPost, "/profiles", [][2]string{
		{"username", "ayse"},
		{"email", "ayse@example.com"},
		{"user_type_id", "2"},
		{"user_role_ids", "1"},
		{"user_role_ids", "3,4"},
	}, pngData)
	rr := httptest.NewRecorder()

	NewProfileHandler(svc, 1<<20).Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Username != "ayse" || got.Email == nil || *got.Email != "ayse@example.com" {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.UserTypeID == nil || *got.UserTypeID != 2 {
		t.Fatalf("user type = %v", got.UserTypeID)
	}
	if !reflect.DeepEqual(got.UserRoleIDs, []uint{1, 3, 4}) {
		t.Fatalf("roles = %v", got.UserRoleIDs)
	}
	if got.FirstName != nil || got.Password != nil {
		t.Fatalf("unsupplied fields must stay nil: %+v", got)
	}
	if got.Picture == nil || got.Picture.Filename != "me.png" || !bytes.Equal(got.Picture.Data, pngData) {
		t.Fatalf("picture = %+v", got.Picture)
	}

	var body struct {
		Message string               `json:"message"`
		Data    services.ProfileView `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Profile created successfully." || body.Data.User.Username != "ayse" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestProfileCreate_JSONRoleArray(t *testing.T) {
	var got services.ProfileInput
	svc := &mockProfileService{
		upsertFunc: func(_ context.Context, in services.ProfileInput) (*services.ProfileView, error) {
			got = in
			return &services.ProfileView{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"username":"ayse","user_type_id":2,"user_role_ids":[5,6]}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	NewProfileHandler(svc, 0).Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if *got.UserTypeID != 2 || !reflect.DeepEqual(got.UserRoleIDs, []uint{5, 6}) {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestProfileCreate_BadIDs(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{}, 0)
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader("username=a&user_type_id=x&user_role_ids=1,zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	body := decodeError(t, rr)
	if body.Errors["user_type_id"] == "" || body.Errors["user_role_ids"] == "" {
		t.Fatalf("expected id errors, got %+v", body)
	}
}

func TestProfileUpdate_IgnoresUsername(t *testing.T) {
	var gotID uint
	var got services.ProfileInput
	svc := &mockProfileService{
		updateFunc: func(_ context.Context, id uint, in services.ProfileInput) (*services.ProfileView, error) {
			gotID, got = id, in
			return &services.ProfileView{ID: id}, nil
		},
	}
	req := withID(multipartRequest(t, http.MethodPut, "/profiles/7", [][2]string{
		{"username", "renamed"},
		{"first_name", "Ayşe"},
	}, nil), "7")
	rr := httptest.NewRecorder()

	NewProfileHandler(svc, 1<<20).Update(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotID != 7 || got.Username != "" || got.FirstName == nil || *got.FirstName != "Ayşe" {
		t.Fatalf("unexpected update id=%d in=%+v", gotID, got)
	}
	if got.Picture != nil || got.UserRoleIDs != nil {
		t.Fatalf("unsupplied fields set: %+v", got)
	}
}

func TestProfileGet_NotFound(t *testing.T) {
	svc := &mockProfileService{
		getFunc: func(context.Context, uint) (*services.ProfileView, error) {
			return nil, &services.NotFoundError{Entity: services.EntityProfile}
		},
	}
	h := NewProfileHandler(svc, 0)

	for _, id := range []string{"99", "abc"} {
		rr := httptest.NewRecorder()
		h.Get(rr, withID(httptest.NewRequest(http.MethodGet, "/profiles/"+id, nil), id))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("id %s: expected 404, got %d", id, rr.Code)
		}
		if body := decodeError(t, rr); body.Error != "Profile not found." {
			t.Fatalf("id %s: error = %q", id, body.Error)
		}
	}
}

func TestProfileDelete(t *testing.T) {
	deleted := uint(0)
	svc := &mockProfileService{
		deleteFunc: func(_ context.Context, id uint) error {
			deleted = id
			return nil
		},
	}
	rr := httptest.NewRecorder()
	NewProfileHandler(svc, 0).Delete(rr, withID(httptest.NewRequest(http.MethodDelete, "/profiles/4", nil), "4"))

	if rr.Code != http.StatusOK || deleted != 4 {
		t.Fatalf("expected 200 deleting 4, got %d (deleted %d)", rr.Code, deleted)
	}
	var body httpx.MessageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Profile and user deleted successfully." || body.Data != nil {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestProfileList_Links(t *testing.T) {
	svc := &mockProfileService{
		listFunc: func(_ context.Context, page int) (*pagination.Page[services.ProfileView], error) {
			if page != 2 {
				t.Fatalf("page = %d", page)
			}
			return &pagination.Page[services.ProfileView]{
				Count:   25,
				Results: make([]services.ProfileView, 10),
				Number:  2,
				Size:    pagination.PageSize,
			}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/profiles?page=2", nil)
	rr := httptest.NewRecorder()

	NewProfileHandler(svc, 0).List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []any   `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 25 || len(body.Results) != 10 {
		t.Fatalf("unexpected page %+v", body)
	}
	if body.Next == nil || *body.Next != "http://api.example.com/profiles?page=3" {
		t.Fatalf("next = %v", body.Next)
	}
	if body.Previous == nil || *body.Previous != "http://api.example.com/profiles" {
		t.Fatalf("previous = %v", body.Previous)
	}
}

func TestProfileList_InvalidPage(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{}, 0)
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/profiles?page=abc", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if body := decodeError(t, rr); body.Error != "Invalid page." {
		t.Fatalf("error = %q", body.Error)
	}
}
