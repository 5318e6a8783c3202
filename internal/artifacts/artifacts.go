package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deividalexander/investment-opportunity-engine/internal/encoder"
	"github.com/deividalexander/investment-opportunity-engine/internal/model"
)

// ErrMissing marks a required trainer artifact that is absent on disk.
// Scoring cannot proceed without the full bundle, so callers abort.
var ErrMissing = errors.New("artifacts: required artifact missing")

// Paths locates the trainer-exported artifact files.
type Paths struct {
	Dir               string
	ModelFile         string
	RoomTypeFile      string
	NeighbourhoodFile string
	KeywordsFile      string
}

// Bundle holds every artifact the scoring stages need, loaded read-only
// once per run.
type Bundle struct {
	Model          *model.LinearModel
	RoomTypes      *encoder.Vocabulary
	Neighbourhoods *encoder.Vocabulary
	Keywords       []string
}

// Load reads the full artifact bundle, failing fast on the first missing or
// malformed file.
func Load(paths Paths) (*Bundle, error) {
	modelPayload, err := readArtifact(paths.Dir, paths.ModelFile)
	if err != nil {
		return nil, err
	}
	priceModel, err := model.ParseLinearModel(modelPayload)
	if err != nil {
		return nil, err
	}

	roomTypes, err := loadVocabulary(paths.Dir, paths.RoomTypeFile)
	if err != nil {
		return nil, err
	}
	neighbourhoods, err := loadVocabulary(paths.Dir, paths.NeighbourhoodFile)
	if err != nil {
		return nil, err
	}

	keywords, err := loadKeywords(paths.Dir, paths.KeywordsFile)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Model:          priceModel,
		RoomTypes:      roomTypes,
		Neighbourhoods: neighbourhoods,
		Keywords:       keywords,
	}, nil
}

// LoadKeywords reads only the keyword-list artifact. The ETL stage needs
// the keywords before the model and encoders come into play.
func LoadKeywords(paths Paths) ([]string, error) {
	return loadKeywords(paths.Dir, paths.KeywordsFile)
}

func readArtifact(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("artifacts: read %s: %w", path, err)
	}
	return payload, nil
}

func loadVocabulary(dir, name string) (*encoder.Vocabulary, error) {
	payload, err := readArtifact(dir, name)
	if err != nil {
		return nil, err
	}
	var labels []string
	if err := json.Unmarshal(payload, &labels); err != nil {
		return nil, fmt.Errorf("artifacts: decode %s: %w", name, err)
	}
	vocab, err := encoder.NewVocabulary(labels)
	if err != nil {
		return nil, fmt.Errorf("artifacts: %s: %w", name, err)
	}
	return vocab, nil
}

func loadKeywords(dir, name string) ([]string, error) {
	payload, err := readArtifact(dir, name)
	if err != nil {
		return nil, err
	}
	var keywords []string
	if err := json.Unmarshal(payload, &keywords); err != nil {
		return nil, fmt.Errorf("artifacts: decode %s: %w", name, err)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("artifacts: %s contains no keywords", name)
	}
	return keywords, nil
}
