// internal/calibration/loader.go
package calibration

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultTrainingLogPath is the PUF-extended CPS training log.
	DefaultTrainingLogPath = "training_log.csv.gz"
	// DefaultTrainingLogCPSPath is the CPS-only training log.
	DefaultTrainingLogCPSPath = "training_log_cps.csv.gz"
	// DefaultFinalResultsPath is the final-results table.
	DefaultFinalResultsPath = "calibration_final_results.csv.gz"
)

// ErrMissingColumn is returned when a table lacks a column the dashboard reads.
var ErrMissingColumn = errors.New("missing required column")

// Paths locates the three input tables.
type Paths struct {
	TrainingLog    string
	TrainingLogCPS string
	FinalResults   string
}

// DefaultPaths returns the conventional file names, relative to the working directory.
func DefaultPaths() Paths {
	return Paths{
		TrainingLog:    DefaultTrainingLogPath,
		TrainingLogCPS: DefaultTrainingLogCPSPath,
		FinalResults:   DefaultFinalResultsPath,
	}
}

// Load reads all three tables, tags the training logs with their source
// dataset, unions them and appends the synthetic Official series.
func Load(paths Paths) (Dataset, error) {
	puf, err := readTrainingLogFile(paths.TrainingLog, SourcePUFExtendedCPS)
	if err != nil {
		return Dataset{}, err
	}
	cps, err := readTrainingLogFile(paths.TrainingLogCPS, SourceCPS)
	if err != nil {
		return Dataset{}, err
	}
	results, err := readFinalResultsFile(paths.FinalResults)
	if err != nil {
		return Dataset{}, err
	}

	combined := make(TrainingLog, 0, len(puf)+len(cps))
	combined = append(combined, puf...)
	combined = append(combined, cps...)

	return Dataset{
		TrainingLog:  WithOfficialSeries(combined),
		FinalResults: results,
	}, nil
}

// WithOfficialSeries returns log followed by a copy of every row whose value is
// replaced by its target and whose source is Official. The input is not modified.
func WithOfficialSeries(log TrainingLog) TrainingLog {
	out := make(TrainingLog, 0, len(log)*2)
	out = append(out, log...)
	for _, row := range log {
		row.Value = row.Target
		row.SourceDataset = SourceOfficial
		out = append(out, row)
	}
	return out
}

func readTrainingLogFile(path, source string) (TrainingLog, error) {
	rc, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	log, err := ReadTrainingLog(rc, source)
	if err != nil {
		return nil, fmt.Errorf("unable to parse training log %s: %w", path, err)
	}
	return log, nil
}

func readFinalResultsFile(path string) (FinalResults, error) {
	rc, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	results, err := ReadFinalResults(rc)
	if err != nil {
		return nil, fmt.Errorf("unable to parse final results %s: %w", path, err)
	}
	return results, nil
}

// ReadTrainingLog parses a training-log CSV and tags every row with source.
func ReadTrainingLog(r io.Reader, source string) (TrainingLog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	cols, err := columnIndex(headers, "name", "epoch", "value", "target")
	if err != nil {
		return nil, err
	}

	var log TrainingLog
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		epoch, err := parseEpoch(field(record, cols["epoch"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: epoch: %w", line, err)
		}
		value, err := parseNumber(field(record, cols["value"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: value: %w", line, err)
		}
		target, err := parseNumber(field(record, cols["target"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: target: %w", line, err)
		}

		log = append(log, TrainingLogRow{
			Name:          field(record, cols["name"]),
			Epoch:         epoch,
			Value:         value,
			Target:        target,
			SourceDataset: source,
		})
	}
	return log, nil
}

// ReadFinalResults parses the final-results CSV.
func ReadFinalResults(r io.Reader) (FinalResults, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	cols, err := columnIndex(headers, "Variable", "Source dataset", "Value")
	if err != nil {
		return nil, err
	}

	var results FinalResults
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		value, err := parseNumber(field(record, cols["Value"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: Value: %w", line, err)
		}
		results = append(results, FinalResultRow{
			Variable:      field(record, cols["Variable"]),
			SourceDataset: field(record, cols["Source dataset"]),
			Value:         value,
		})
	}
	return results, nil
}

// openTable opens path and transparently decompresses it when it starts with
// the gzip magic bytes.
func openTable(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}

	buffered := bufio.NewReader(file)
	magic, err := buffered.Peek(2)
	if err != nil && err != io.EOF {
		_ = file.Close()
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("unable to decompress %s: %w", path, err)
		}
		return &gzipFile{Reader: gz, file: file}, nil
	}
	return &plainFile{Reader: buffered, file: file}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

type plainFile struct {
	io.Reader
	file *os.File
}

func (p *plainFile) Close() error { return p.file.Close() }

func columnIndex(headers []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	cols := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseNumber treats an empty cell as missing (NaN), the way the upstream
// exporter writes absent values.
func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(raw, 64)
}

// parseEpoch accepts integral epochs written either as "12" or "12.0".
func parseEpoch(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("epoch %q is not a whole number", raw)
	}
	return int(f), nil
}
