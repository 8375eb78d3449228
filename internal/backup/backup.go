// Package backup exports RMS records to a checksummed archive file for
// offline keeping. An archive is a gzip-compressed JSON document followed by
// an 8-byte little-endian CRC64-NVME footer computed over the compressed
// payload.
package backup

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/crc64nvme"
	"github.com/rs/zerolog/log"

	"github.com/crglab/rmsctl/internal/rms"
)

// Sentinel errors
var (
	// ErrChecksumMismatch is returned when an archive's footer does not
	// match its payload.
	ErrChecksumMismatch = errors.New("archive checksum mismatch")

	// ErrArchiveTruncated is returned when an archive is too short to
	// carry a footer.
	ErrArchiveTruncated = errors.New("archive truncated")
)

const archiveVersion = 1

// Archive is the exported snapshot. Resources the backend refused to serve
// are present as empty slices; a partial backup is better than none.
type Archive struct {
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
	Users     []rms.ManagedUser    `json:"users"`
	Proposals []rms.Proposal       `json:"proposals"`
	Projects  []rms.Project        `json:"projects"`
	Progress  []rms.ProgressUpdate `json:"progress"`
}

// Exporter snapshots RMS records through the API client.
type Exporter struct {
	client *rms.Client
}

// NewExporter creates an exporter over the given client.
func NewExporter(client *rms.Client) *Exporter {
	return &Exporter{client: client}
}

// Snapshot fetches all exportable resources. The four reads are issued
// concurrently and awaited jointly; completion order is not significant. A
// resource that fails to load is logged and left empty rather than failing
// the whole export.
func (e *Exporter) Snapshot(ctx context.Context) *Archive {
	archive := &Archive{
		Version:   archiveVersion,
		CreatedAt: time.Now().UTC(),
		Users:     []rms.ManagedUser{},
		Proposals: []rms.Proposal{},
		Projects:  []rms.Project{},
		Progress:  []rms.ProgressUpdate{},
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		users, err := e.client.Users.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("users unavailable, exporting without them")
			return
		}
		archive.Users = users
	}()

	go func() {
		defer wg.Done()
		proposals, err := e.client.Proposals.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("proposals unavailable, exporting without them")
			return
		}
		archive.Proposals = proposals
	}()

	go func() {
		defer wg.Done()
		projects, err := e.client.Projects.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("projects unavailable, exporting without them")
			return
		}
		archive.Projects = projects
	}()

	go func() {
		defer wg.Done()
		progress, err := e.client.Projects.ListProgress(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("progress unavailable, exporting without them")
			return
		}
		archive.Progress = progress
	}()

	wg.Wait()

	return archive
}

// Write serialises the archive to w in the checksummed archive format.
func Write(w io.Writer, archive *Archive) error {
	data, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}

	compressed := new(bytes.Buffer)
	gz := gzip.NewWriter(compressed)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("failed to compress archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize compression: %w", err)
	}

	crc := computeCRC64(compressed.Bytes())

	if _, err := w.Write(compressed.Bytes()); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, crc); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}

	log.Debug().
		Int("compressed_bytes", compressed.Len()).
		Uint64("crc64", crc).
		Msg("archive written")

	return nil
}

// Read parses and verifies an archive produced by Write.
func Read(r io.Reader) (*Archive, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	if len(raw) < 8 {
		return nil, ErrArchiveTruncated
	}

	payload := raw[:len(raw)-8]
	stored := binary.LittleEndian.Uint64(raw[len(raw)-8:])

	if computeCRC64(payload) != stored {
		return nil, ErrChecksumMismatch
	}

	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress archive: %w", err)
	}
	defer gz.Close()

	var archive Archive
	if err := json.NewDecoder(gz).Decode(&archive); err != nil {
		return nil, fmt.Errorf("failed to parse archive: %w", err)
	}

	return &archive, nil
}

// computeCRC64 computes CRC64-NVME checksum
func computeCRC64(data []byte) uint64 {
	h := crc64nvme.New()
	h.Write(data)
	return h.Sum64()
}
