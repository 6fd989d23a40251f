package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/vvka-141/recls/pkg/recls"
	"gopkg.in/yaml.v3"
)

// entryWriter renders entries as they are found.
type entryWriter interface {
	Write(e *recls.Entry) error
	Flush() error
}

func newEntryWriter(format string, w io.Writer) (entryWriter, error) {
	switch format {
	case "", "text":
		return &textWriter{w: w}, nil
	case "long":
		return &longWriter{tw: tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)}, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlWriter{enc: enc}, nil
	}
	return nil, fmt.Errorf("invalid argument %q for --format: want text, long or yaml", format)
}

type textWriter struct{ w io.Writer }

func (t *textWriter) Write(e *recls.Entry) error {
	_, err := fmt.Fprintln(t.w, e.Path())
	return err
}

func (t *textWriter) Flush() error { return nil }

// longWriter prints an ls -l style listing.
type longWriter struct{ tw *tabwriter.Writer }

func (l *longWriter) Write(e *recls.Entry) error {
	mod := "-"
	if !e.ModificationTime().IsZero() {
		mod = e.ModificationTime().Local().Format("2006-01-02 15:04")
	}
	_, err := fmt.Fprintf(l.tw, "%s\t%d\t%s\t %s\t\n", e.Attributes(), e.Size(), mod, e.Path())
	return err
}

func (l *longWriter) Flush() error { return l.tw.Flush() }

type entryRecord struct {
	Path         string    `yaml:"path"`
	SearchDir    string    `yaml:"search_directory"`
	RelativePath string    `yaml:"relative_path"`
	Name         string    `yaml:"name"`
	Extension    string    `yaml:"extension,omitempty"`
	Size         int64     `yaml:"size"`
	Mode         string    `yaml:"mode"`
	Modified     time.Time `yaml:"modified,omitempty"`
	Directory    bool      `yaml:"directory,omitempty"`
	Link         bool      `yaml:"link,omitempty"`
	Placeholder  bool      `yaml:"placeholder,omitempty"`
	NumLinks     uint64    `yaml:"links,omitempty"`
	NodeIndex    uint64    `yaml:"node_index,omitempty"`
}

func newEntryRecord(e *recls.Entry) entryRecord {
	return entryRecord{
		Path:         e.Path(),
		SearchDir:    e.SearchDirectory(),
		RelativePath: e.SearchRelativePath(),
		Name:         e.FileName(),
		Extension:    e.FileExtension(),
		Size:         e.Size(),
		Mode:         e.Attributes().String(),
		Modified:     e.ModificationTime(),
		Directory:    e.IsDirectory(),
		Link:         e.IsLink(),
		Placeholder:  e.IsPlaceholder(),
		NumLinks:     e.NumLinks(),
		NodeIndex:    e.NodeIndex(),
	}
}

// yamlWriter emits one YAML document per entry so output can be streamed.
type yamlWriter struct{ enc *yaml.Encoder }

func (y *yamlWriter) Write(e *recls.Entry) error {
	return y.enc.Encode(newEntryRecord(e))
}

func (y *yamlWriter) Flush() error { return y.enc.Close() }
