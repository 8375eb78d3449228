package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crglab/rmsctl/internal/gateway"
	"github.com/crglab/rmsctl/internal/rms"
)

type staticCreds struct{}

func (staticCreds) AccessToken() (string, bool) { return "test-token", true }
func (staticCreds) Clear() error                { return nil }

func testArchive() *Archive {
	return &Archive{
		Version:   archiveVersion,
		CreatedAt: time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC),
		Users: []rms.ManagedUser{
			{ID: 1, Username: "alice", Role: "head"},
		},
		Proposals: []rms.Proposal{
			{ID: 9, Title: "Genome assembly pipeline", Status: rms.ProposalApproved},
		},
		Projects: []rms.Project{
			{ID: 3, ProposalTitle: "Assembly pipeline"},
		},
		Progress: []rms.ProgressUpdate{
			{ID: 11, Project: 3, Phase: "benchmarking", Completed: true},
		},
	}
}

func TestWriteRead(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, testArchive()))

	decoded, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, testArchive(), decoded)
}

func TestReadFailures(t *testing.T) {
	t.Run("corrupt payload", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, Write(buf, testArchive()))

		data := buf.Bytes()
		data[4] ^= 0xff

		archive, err := Read(bytes.NewReader(data))
		require.ErrorIs(t, err, ErrChecksumMismatch)
		require.Nil(t, archive)
	})

	t.Run("corrupt footer", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, Write(buf, testArchive()))

		data := buf.Bytes()
		data[len(data)-1] ^= 0xff

		_, err := Read(bytes.NewReader(data))
		require.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("truncated archive", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte{0x1f, 0x8b, 0x08}))
		require.ErrorIs(t, err, ErrArchiveTruncated)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Read(bytes.NewReader(nil))
		require.ErrorIs(t, err, ErrArchiveTruncated)
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("collects every resource", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/users/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]rms.ManagedUser{{ID: 1, Username: "alice"}})
		})
		mux.HandleFunc("/rms/proposals/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]rms.Proposal{{ID: 9, Title: "Genome assembly pipeline"}})
		})
		mux.HandleFunc("/rms/projects/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]rms.Project{{ID: 3}})
		})
		mux.HandleFunc("/rms/progress/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]rms.ProgressUpdate{{ID: 11, Project: 3}})
		})

		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		gw, err := gateway.New(gateway.Config{BaseURL: srv.URL}, staticCreds{})
		require.NoError(t, err)

		archive := NewExporter(rms.NewClient(gw)).Snapshot(context.Background())
		require.Equal(t, archiveVersion, archive.Version)
		assert.Len(t, archive.Users, 1)
		assert.Len(t, archive.Proposals, 1)
		assert.Len(t, archive.Projects, 1)
		assert.Len(t, archive.Progress, 1)
	})

	t.Run("partial failure leaves the resource empty", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/proposals/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]rms.Proposal{{ID: 9}})
		})
		// Users, projects and progress all 404.

		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		gw, err := gateway.New(gateway.Config{BaseURL: srv.URL}, staticCreds{})
		require.NoError(t, err)

		archive := NewExporter(rms.NewClient(gw)).Snapshot(context.Background())
		assert.Len(t, archive.Proposals, 1)
		assert.Empty(t, archive.Users)
		assert.Empty(t, archive.Projects)
		assert.Empty(t, archive.Progress)
	})
}
