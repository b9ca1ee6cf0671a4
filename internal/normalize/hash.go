package normalize

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gyeh/hmnreport/internal/model"
)

// FileHash computes the hex-encoded SHA-256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// RecordHash computes a stable SHA-256 over the identifying content of a
// record: its source line, identifiers, admission instant and categories.
func RecordHash(r *model.Record) []byte {
	h := sha256.New()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(r.SourceRow))
	h.Write(buf)
	binary.LittleEndian.PutUint64(buf, uint64(r.Admission.UnixMilli()))
	h.Write(buf)
	for _, v := range []string{
		string(r.Kind),
		r.PatientID,
		r.RecordID,
		r.Service,
		r.Section,
		r.Staff,
		derefStr(r.DiagnosisCode),
	} {
		h.Write([]byte(strings.TrimSpace(v)))
		h.Write([]byte{0})
	}
	return h.Sum(nil)
}
