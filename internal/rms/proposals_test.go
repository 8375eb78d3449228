package rms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalsList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rms/proposals/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Proposal{
			{ID: 9, Title: "Genome assembly pipeline", Status: ProposalPending},
			{ID: 10, Title: "Soil microbiome survey", Status: ProposalApproved},
		})
	})

	client := newTestClient(t, mux)

	proposals, err := client.Proposals.List(context.Background())
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, ProposalPending, proposals[0].Status)
}

func TestProposalsSubmit(t *testing.T) {
	t.Run("defaults budget and duration", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/proposals/", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "50000.00", r.FormValue("budget"))
			assert.Equal(t, "12", r.FormValue("duration_months"))
			assert.Equal(t, "false", r.FormValue("is_client_request"))
			assert.Empty(t, r.FormValue("client_organization"))

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Proposal{ID: 11, Title: r.FormValue("title"), Status: ProposalPending})
		})

		client := newTestClient(t, mux)

		proposal, err := client.Proposals.Submit(context.Background(), SubmitInput{
			Title:    "Genome assembly pipeline",
			Category: "research",
			Abstract: "Benchmark modern assemblers on lab datasets.",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), proposal.ID)
	})

	t.Run("client request carries client fields", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/proposals/", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "true", r.FormValue("is_client_request"))
			assert.Equal(t, "Acme Bio", r.FormValue("client_organization"))
			assert.Equal(t, "lab@acme.example.com", r.FormValue("client_email"))

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Proposal{ID: 12})
		})

		client := newTestClient(t, mux)

		_, err := client.Proposals.Submit(context.Background(), SubmitInput{
			Title:              "Contracted sequencing run",
			IsClientRequest:    true,
			ClientOrganization: "Acme Bio",
			ClientEmail:        "lab@acme.example.com",
		})
		require.NoError(t, err)
	})

	t.Run("attachment is uploaded", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/proposals/", func(w http.ResponseWriter, r *http.Request) {
			f, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()

			content, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.Equal(t, "proposal.pdf", header.Filename)
			assert.Equal(t, "%PDF-1.4 fake", string(content))

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Proposal{ID: 13})
		})

		client := newTestClient(t, mux)

		_, err := client.Proposals.Submit(context.Background(), SubmitInput{
			Title:    "Genome assembly pipeline",
			FileName: "proposal.pdf",
			File:     strings.NewReader("%PDF-1.4 fake"),
		})
		require.NoError(t, err)
	})
}

func TestProposalsReview(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		var approved bool
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/proposals/9/approve/", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			approved = true
			w.Write([]byte(`{}`))
		})

		client := newTestClient(t, mux)

		require.NoError(t, client.Proposals.Approve(context.Background(), 9))
		assert.True(t, approved)
	})

	t.Run("reject carries reviewer notes", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/proposals/9/reject/", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "Budget exceeds the program cap.", body["notes"])
			w.Write([]byte(`{}`))
		})

		client := newTestClient(t, mux)

		require.NoError(t, client.Proposals.Reject(context.Background(), 9, "Budget exceeds the program cap."))
	})

	t.Run("forbidden approval surfaces", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"detail":"You do not have permission to perform this action."}`))
		}))

		err := client.Proposals.Approve(context.Background(), 9)
		require.Error(t, err)
	})
}
