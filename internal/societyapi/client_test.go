package societyapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second)
}

func TestGetMembers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/members", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"m1","membershipNumber":"MS-0001","personalDetails":{"nameOfMember":"Asha"}},
			{"id":"m2","membershipNumber":"MS-0002"}
		]}`))
	})

	members, err := client.GetMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "m1", members[0].ID)
	assert.Equal(t, "MS-0001", members[0].MembershipNumber)

	name, ok := members[0].Category("personalDetails")["nameOfMember"]
	require.True(t, ok)
	assert.Equal(t, "Asha", name)
}

func TestGetMemberNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no such member"}`, http.StatusNotFound)
	})

	_, err := client.GetMember(context.Background(), "m-missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetMemberEscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/members/m%2F1", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"data":{"id":"m/1"}}`))
	})

	m, err := client.GetMember(context.Background(), "m/1")
	require.NoError(t, err)
	assert.Equal(t, "m/1", m.ID)
}

func TestCreateMemberJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "MS-0042", body["membershipNumber"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"m-new"}}`))
	})

	id, err := client.CreateMember(context.Background(), map[string]interface{}{
		"membershipNumber": "MS-0042",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "m-new", id)
}

func TestCreateMemberMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Contains(t, r.FormValue("data"), `"membershipNumber":"MS-0042"`)

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.jpg", header.Filename)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"m-new"}}`))
	})

	id, err := client.CreateMember(context.Background(), map[string]interface{}{
		"membershipNumber": "MS-0042",
	}, []FileUpload{
		{Field: "photo", Filename: "photo.jpg", Content: []byte("jpeg-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, "m-new", id)
}

func TestCreateLoan(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loans", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Loan", body["loanType"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"loan-9","loanNumber":"LN-2025-0009"}}`))
	})

	created, err := client.CreateLoan(context.Background(), map[string]interface{}{
		"memberId": "m1",
		"loanType": "Loan",
	})
	require.NoError(t, err)
	assert.Equal(t, "loan-9", created.ID)
	assert.Equal(t, "LN-2025-0009", created.LoanNumber)
}

func TestCreateLoanUpstreamErrorIsOpaque(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"guarantor limit exceeded"}`, http.StatusUnprocessableEntity)
	})

	_, err := client.CreateLoan(context.Background(), map[string]interface{}{"loanType": "Loan"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "guarantor limit exceeded")
}

func TestGetLoansByMember(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/members/m1/loans", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"loanNumber":"LN-1"},{"loanNumber":"LN-2"}]}`))
	})

	loans, err := client.GetLoansByMember(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, "LN-2", loans[1]["loanNumber"])
}

func TestGetGuarantorRelations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/members/m1/guarantors", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"memberId":"m2","membershipNumber":"MS-0002","name":"Vinod Singh"}]}`))
	})

	entries, err := client.GetGuarantorRelations(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Vinod Singh", entries[0].Name)
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := client.GetMembers(ctx)
		errCh <- err
	}()

	<-started
	cancel()
	err := <-errCh
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
