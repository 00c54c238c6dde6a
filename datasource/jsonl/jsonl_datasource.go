package jsonl

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-cinder/cinder"
	"github.com/go-cinder/cinder/errors"
	"github.com/go-cinder/cinder/internal/dataset"
	"github.com/go-cinder/cinder/internal/partition"
	uuid "github.com/gofrs/uuid"
	"github.com/tidwall/gjson"
)

// SourceConf configures a JSONL DataSource, suitable for JSON lines files
type SourceConf struct {
	NumPartitions int    // The number of Partitions the file is divided into. Defaults to 2.
	Path          string // A gjson path extracted from each line as the element value. Defaults to the whole line, parsed.
	HeaderLines   int    // The number of lines to ignore from the beginning of the file. Defaults to 0.
	MaxBufferSize int    // Maximum size in bytes of the buffer used to read lines from the file
}

// DataSource reads elements lazily from a JSON-lines file. Lines are counted
// once at construction to fix partition boundaries; each Load scans only as
// far as its contiguous line range.
type DataSource struct {
	id       string
	path     string
	numLines int
	conf     *SourceConf
}

// CreateDataset is a factory for JSONL Datasets. Element values are parsed
// from each line of JSON using conf.Path, which should be a gjson path;
// numbers become float64s, as is usual for parsed JSON.
func CreateDataset(path string, conf *SourceConf) (cinder.Dataset, error) {
	if conf == nil {
		conf = &SourceConf{}
	}
	if conf.NumPartitions == 0 {
		conf.NumPartitions = 2
	}
	if conf.NumPartitions < 1 {
		return nil, fmt.Errorf("SourceConf.NumPartitions %d must be at least 1", conf.NumPartitions)
	}
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID: %v", err)
	}
	source := &DataSource{id: id.String(), path: path, conf: conf}
	if err := source.analyze(); err != nil {
		return nil, err
	}
	return dataset.CreateDataset(source), nil
}

// analyze counts data lines in the file, fixing partition boundaries for the
// life of this DataSource
func (s *DataSource) analyze() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), s.conf.MaxBufferSize)
	n := 0
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	n -= s.conf.HeaderLines
	if n < 0 {
		n = 0
	}
	s.numLines = n
	return nil
}

// ID retrieves the unique ID of this DataSource
func (s *DataSource) ID() string {
	return s.id
}

// Name returns a human-readable name for this DataSource
func (s *DataSource) Name() string {
	return fmt.Sprintf("jsonl(%s)", s.path)
}

// NumPartitions returns the fixed number of Partitions this DataSource
// divides its file into
func (s *DataSource) NumPartitions() int {
	return s.conf.NumPartitions
}

// Load materializes a single Partition by scanning the file and parsing the
// lines within this partition's range
func (s *DataSource) Load(idx int) (cinder.Partition, error) {
	if idx < 0 || idx >= s.conf.NumPartitions {
		return nil, errors.NoMorePartitionsError{Index: idx}
	}
	start, end := partitionRange(s.numLines, s.conf.NumPartitions, idx)
	part := partition.CreatePartition(s.id, idx, end-start)
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), s.conf.MaxBufferSize)
	for i := 0; i < s.conf.HeaderLines; i++ {
		scanner.Scan()
	}
	line := 0
	for scanner.Scan() && line < end {
		if line >= start {
			text := strings.TrimSpace(scanner.Text())
			if s.conf.Path != "" {
				part.Append(gjson.Get(text, s.conf.Path).Value())
			} else {
				part.Append(gjson.Parse(text).Value())
			}
		}
		line++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return part, nil
}

func partitionRange(numElements, numPartitions, idx int) (int, int) {
	base := numElements / numPartitions
	rem := numElements % numPartitions
	start := base*idx + min(idx, rem)
	size := base
	if idx < rem {
		size++
	}
	return start, start + size
}
