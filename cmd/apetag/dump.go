package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/apetag"
)

// report is the dump of one file.
type report struct {
	Path        string              `yaml:"path"`
	Format      string              `yaml:"format"`
	Footer      footerReport        `yaml:"footer"`
	Items       []itemReport        `yaml:"items"`
	Properties  map[string][]string `yaml:"properties"`
	Unsupported []string            `yaml:"unsupported,omitempty"`
	Warnings    []string            `yaml:"warnings,omitempty"`
	Foreign     *foreignReport      `yaml:"foreign,omitempty"`
}

type footerReport struct {
	Offset        int64  `yaml:"offset"`
	Version       uint32 `yaml:"version"`
	TagSize       uint32 `yaml:"tag_size"`
	ItemCount     uint32 `yaml:"item_count"`
	HeaderPresent bool   `yaml:"header_present"`
}

type itemReport struct {
	Key      string   `yaml:"key"`
	Type     string   `yaml:"type"`
	ReadOnly bool     `yaml:"read_only,omitempty"`
	Values   []string `yaml:"values,omitempty"`
	Bytes    int      `yaml:"bytes,omitempty"`
}

// foreignReport describes a non-APE tag found in the same file.
type foreignReport struct {
	Format   string `yaml:"format"`
	FileType string `yaml:"file_type"`
	Title    string `yaml:"title,omitempty"`
	Artist   string `yaml:"artist,omitempty"`
}

func runDump(cfg *config, args []string, stdout io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		return errors.New("no files given")
	}

	reports := make([]report, 0, len(args))
	for _, path := range args {
		r, err := dumpFile(path, cfg, logger)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	switch cfg.Output {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "text":
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			writeText(stdout, r)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", cfg.Output)
	}
}

func dumpFile(path string, cfg *config, logger *slog.Logger) (report, error) {
	file, err := apetag.Open(path, tagOptions(cfg, logger)...)
	if err != nil {
		return report{}, err
	}

	t := file.Tag
	props := t.Properties()
	footer := t.Footer()

	r := report{
		Path:   path,
		Format: file.Format.String(),
		Footer: footerReport{
			Offset:        file.FooterOffset,
			Version:       footer.Version(),
			TagSize:       footer.TagSize(),
			ItemCount:     footer.ItemCount(),
			HeaderPresent: footer.HeaderPresent(),
		},
		Properties:  make(map[string][]string, props.Len()),
		Unsupported: props.Unsupported(),
	}

	for _, item := range t.ItemMap().All() {
		ir := itemReport{
			Key:      item.Key(),
			Type:     item.Type().String(),
			ReadOnly: item.ReadOnly(),
		}
		if item.Type() == apetag.ItemText {
			ir.Values = item.Values()
		} else {
			ir.Bytes = len(item.BinaryData())
		}
		r.Items = append(r.Items, ir)
	}

	for key, values := range props.All() {
		r.Properties[key] = values
	}

	for _, w := range t.Warnings() {
		r.Warnings = append(r.Warnings, w.String())
	}

	r.Foreign = foreignTags(path, logger)
	return r, nil
}

// foreignTags reports the ID3 or other tag that dhowden/tag finds in the
// file, if any.
func foreignTags(path string, logger *slog.Logger) *foreignReport {
	f, err := os.Open(path)
	if err != nil {
		logger.Debug("reopen for foreign tags failed", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			logger.Debug("foreign tag unreadable", "path", path, "error", err)
		}
		return nil
	}

	return &foreignReport{
		Format:   string(m.Format()),
		FileType: string(m.FileType()),
		Title:    m.Title(),
		Artist:   m.Artist(),
	}
}

func writeText(w io.Writer, r report) {
	fmt.Fprintf(w, "File:        %s\n", r.Path)
	fmt.Fprintf(w, "Format:      %s\n", r.Format)
	fmt.Fprintf(w, "Footer:      offset %d, version %d, %d bytes, %d items",
		r.Footer.Offset, r.Footer.Version, r.Footer.TagSize, r.Footer.ItemCount)
	if r.Footer.HeaderPresent {
		fmt.Fprint(w, ", with header")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "\nItems:")
	fmt.Fprintln(w, "──────")
	for _, item := range r.Items {
		flag := ""
		if item.ReadOnly {
			flag = " (read-only)"
		}
		if item.Type == apetag.ItemText.String() {
			fmt.Fprintf(w, "  %-24s %s%s\n", item.Key, strings.Join(item.Values, " | "), flag)
		} else {
			fmt.Fprintf(w, "  %-24s <%s, %d bytes>%s\n", item.Key, item.Type, item.Bytes, flag)
		}
	}

	if len(r.Unsupported) > 0 {
		fmt.Fprintf(w, "\nUnsupported: %s\n", strings.Join(r.Unsupported, ", "))
	}

	if r.Foreign != nil {
		fmt.Fprintf(w, "\nAlso tagged: %s (%s)", r.Foreign.Format, r.Foreign.FileType)
		if r.Foreign.Title != "" {
			fmt.Fprintf(w, ": %s", r.Foreign.Title)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		fmt.Fprintln(w, "─────────")
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  • %s\n", warning)
		}
	}
}
