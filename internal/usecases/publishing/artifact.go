package publishing

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/meticalabs/smart-floors-external/internal/domain"
)

// manifest is the only content of a cold-start artifact: enough for the
// serving side to identify what it loaded, nothing the model needs.
type manifest struct {
	ModelName    string `json:"model_name"`
	ModelVersion string `json:"model_version"`
	Reference    string `json:"reference"`
}

// buildEmptyArtifact writes a placeholder model bundle to dir and returns it
// in the CREATED state. Header timestamps are pinned so the same name and
// version always produce identical bytes.
func buildEmptyArtifact(dir, version string, now time.Time) (domain.ModelArtifact, error) {
	name := domain.EmptyArtifactName(now)
	localPath := filepath.Join(dir, name)

	body, err := json.Marshal(manifest{
		ModelName:    name,
		ModelVersion: version,
		Reference:    domain.AllocatorReference,
	})
	if err != nil {
		return domain.ModelArtifact{}, NewPublishError(ErrArtifactCreate, name, err.Error())
	}

	file, err := os.Create(localPath)
	if err != nil {
		return domain.ModelArtifact{}, NewPublishError(ErrArtifactCreate, name, err.Error())
	}

	if err := writeTarGz(file, "manifest.json", body); err != nil {
		file.Close()
		os.Remove(localPath)
		return domain.ModelArtifact{}, NewPublishError(ErrArtifactCreate, name, err.Error())
	}
	if err := file.Close(); err != nil {
		os.Remove(localPath)
		return domain.ModelArtifact{}, NewPublishError(ErrArtifactCreate, name, err.Error())
	}

	return domain.ModelArtifact{
		Name:      name,
		LocalPath: localPath,
		Version:   version,
		State:     domain.ArtifactCreated,
	}, nil
}

func writeTarGz(file *os.File, entryName string, body []byte) error {
	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)

	header := &tar.Header{
		Name:    entryName,
		Mode:    0o644,
		Size:    int64(len(body)),
		ModTime: time.Unix(0, 0).UTC(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if _, err := tw.Write(body); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
