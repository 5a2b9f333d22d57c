package artifact

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"talentflow/internal/errors"
	"talentflow/internal/model"
)

// Loader reads and validates the model and preprocessors artifacts.
type Loader struct {
	Source Source
	// ManifestPath optionally pins versions and checksums.
	ManifestPath string
	Logger       *errors.Logger
}

// Load reads both artifacts from the local filesystem.
func Load(ctx context.Context, modelPath, preprocessorsPath string) (model.Classifier, *Bundle, error) {
	return (&Loader{Source: FileSource{}}).Load(ctx, modelPath, preprocessorsPath)
}

// Load reads both artifacts and checks that they fit together. Unreadable
// or undecodable artifacts yield MISSING_ARTIFACT; artifacts that decode
// but break the bundle contract yield INCOMPATIBLE_ARTIFACT.
func (l *Loader) Load(ctx context.Context, modelPath, preprocessorsPath string) (model.Classifier, *Bundle, error) {
	start := time.Now()

	var manifest *Manifest
	if l.ManifestPath != "" {
		data, _, err := l.read(ctx, l.ManifestPath, "")
		if err != nil {
			return nil, nil, errors.NewArtifactError(errors.ErrCodeMissingArtifact,
				"manifest is not readable", err).WithContext("path", l.ManifestPath)
		}
		manifest, err = ParseManifest(data)
		if err != nil {
			return nil, nil, errors.NewArtifactError(errors.ErrCodeMissingArtifact,
				"manifest is not valid", err).WithContext("path", l.ManifestPath)
		}
		if manifest.FormatVersion != SupportedFormatVersion {
			return nil, nil, errors.NewArtifactError(errors.ErrCodeIncompatibleArtifact,
				fmt.Sprintf("manifest format %q is not supported", manifest.FormatVersion), nil).
				WithContext("path", l.ManifestPath)
		}
	}

	var modelSum, preprocessorsSum string
	if manifest != nil {
		modelSum = manifest.Artifacts.Model.SHA256
		preprocessorsSum = manifest.Artifacts.Preprocessors.SHA256
	}

	var mf modelFile
	modelDigest, err := l.decode(ctx, modelPath, modelSum, &mf)
	if err != nil {
		return nil, nil, err
	}
	forest, err := mf.build()
	if err != nil {
		return nil, nil, incompatible(modelPath, "model is not a valid random forest", err)
	}

	var pf preprocessorsFile
	preprocessorsDigest, err := l.decode(ctx, preprocessorsPath, preprocessorsSum, &pf)
	if err != nil {
		return nil, nil, err
	}

	version := ""
	if manifest != nil {
		version = manifest.Version
	}
	bundle, err := pf.build(version)
	if err != nil {
		return nil, nil, incompatible(preprocessorsPath, "preprocessors are not a valid bundle", err)
	}
	if bundle.Version == "" {
		bundle.Version = contentVersion(modelDigest, preprocessorsDigest)
	}

	if err := CheckCompatible(forest, bundle); err != nil {
		return nil, nil, err
	}

	if l.Logger != nil {
		l.Logger.Info("Artifacts loaded",
			"version", bundle.Version,
			"model", modelPath,
			"preprocessors", preprocessorsPath,
			"width", bundle.Pipeline().Width(),
			"duration", time.Since(start))
	}
	return forest, bundle, nil
}

// CheckCompatible verifies that the classifier accepts the bundle's vector
// and that every class it can predict has a label.
func CheckCompatible(clf model.Classifier, bundle *Bundle) error {
	if width := bundle.Pipeline().Width(); clf.NumFeatures() != width {
		return errors.NewArtifactError(errors.ErrCodeIncompatibleArtifact,
			fmt.Sprintf("model expects %d features but the preprocessors produce %d", clf.NumFeatures(), width), nil)
	}
	for _, class := range clf.Classes() {
		if _, ok := bundle.Labels.Decode(class); !ok {
			return errors.NewArtifactError(errors.ErrCodeIncompatibleArtifact,
				fmt.Sprintf("model class %d has no label in level_mapping", class), nil)
		}
	}
	return nil
}

func (l *Loader) decode(ctx context.Context, location, wantSum string, v any) (string, error) {
	data, digest, err := l.read(ctx, location, wantSum)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeIncompatibleArtifact) {
			return "", err
		}
		return "", errors.NewArtifactError(errors.ErrCodeMissingArtifact,
			"artifact is not readable", err).WithContext("path", location)
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return "", errors.NewArtifactError(errors.ErrCodeMissingArtifact,
			"artifact is not valid JSON", err).WithContext("path", location)
	}
	return digest, nil
}

// read streams location through a sha256 hasher and checks the digest when
// wantSum is set.
func (l *Loader) read(ctx context.Context, location, wantSum string) ([]byte, string, error) {
	source := l.Source
	if source == nil {
		source = FileSource{}
	}
	rc, err := source.Open(ctx, location)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = rc.Close() }()

	hasher := sha256.New()
	data, err := io.ReadAll(io.TeeReader(rc, hasher))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", location, err)
	}
	digest := hex.EncodeToString(hasher.Sum(nil))

	if wantSum != "" && !strings.EqualFold(wantSum, digest) {
		return nil, "", errors.NewArtifactError(errors.ErrCodeIncompatibleArtifact,
			"artifact checksum does not match manifest", nil).
			WithContext("path", location).
			WithContext("expected_sha256", wantSum).
			WithContext("actual_sha256", digest)
	}
	return data, digest, nil
}

func incompatible(location, message string, cause error) error {
	return errors.NewArtifactError(errors.ErrCodeIncompatibleArtifact, message, cause).
		WithContext("path", location)
}

func contentVersion(modelDigest, preprocessorsDigest string) string {
	sum := sha256.Sum256([]byte(modelDigest + preprocessorsDigest))
	return "sha256-" + hex.EncodeToString(sum[:])[:12]
}
