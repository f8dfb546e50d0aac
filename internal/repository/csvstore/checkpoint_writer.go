package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"freshCartChurn/domain"
)

// CheckpointWriter persists the derived tables as CSV artifacts in the
// processed-data directory. Rows are written in the builders' output
// order (ascending user id), so re-running an unchanged pipeline
// produces byte-identical files.
type CheckpointWriter struct {
	dir string
}

func NewCheckpointWriter(dir string) *CheckpointWriter {
	return &CheckpointWriter{dir: dir}
}

func (w *CheckpointWriter) WriteFeatures(features []domain.UserFeatures) error {
	path := filepath.Join(w.dir, "customer_features.csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	names := domain.FeatureNames()
	head := append([]string{"user_id"}, names...)
	if err := cw.Write(head); err != nil {
		return fmt.Errorf("write %s header: %w", path, err)
	}

	row := make([]string, 0, len(head))
	for _, uf := range features {
		vec := uf.Vector()
		row = row[:0]
		row = append(row, strconv.FormatUint(uf.UserID, 10))
		for _, name := range names {
			row = append(row, strconv.FormatFloat(vec[name], 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s row: %w", path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (w *CheckpointWriter) WriteLabels(labels []domain.ChurnLabel) error {
	path := filepath.Join(w.dir, "train_labels.csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if err := cw.Write([]string{"user_id", "is_churn", "days_to_next_order"}); err != nil {
		return fmt.Errorf("write %s header: %w", path, err)
	}

	for _, l := range labels {
		rec := []string{
			strconv.FormatUint(l.UserID, 10),
			strconv.Itoa(l.IsChurn),
			strconv.FormatFloat(l.DaysToNextOrder, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s row: %w", path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
