package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/apetag"
)

// propsFile is the input of the render command:
//
//	properties:
//	  TITLE: [Hello]
//	  TRACKNUMBER: ["3"]
//	binary:
//	  Cover Art (Front): cover.jpg
//
// Binary paths are relative to the props file.
type propsFile struct {
	Properties map[string][]string `yaml:"properties"`
	Binary     map[string]string   `yaml:"binary,omitempty"`
}

// loadProps reads a props file, rejecting unknown top-level fields.
func loadProps(path string) (*propsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read props file: %w", err)
	}

	var pf propsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode props file: %w", err)
	}
	return &pf, nil
}

// buildTag creates a tag from a props file. Rejected property keys are
// returned; binary items with invalid keys fail.
func buildTag(pf *propsFile, baseDir string, opts ...apetag.Option) (*apetag.Tag, *apetag.PropertyMap, error) {
	t := apetag.New(opts...)
	rejected := t.SetProperties(apetag.NewPropertyMap(pf.Properties))

	for key, file := range pf.Binary {
		if !filepath.IsAbs(file) {
			file = filepath.Join(baseDir, file)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("read binary item %q: %w", key, err)
		}
		if err := t.SetData(key, data); err != nil {
			return nil, nil, err
		}
	}

	return t, rejected, nil
}

func runRender(cfg *config, _ []string, stdout io.Writer, logger *slog.Logger) error {
	if cfg.Props == "" || cfg.Out == "" {
		return errors.New("render needs --props and --out")
	}

	pf, err := loadProps(cfg.Props)
	if err != nil {
		return err
	}

	t, rejected, err := buildTag(pf, filepath.Dir(cfg.Props), tagOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	for key, values := range rejected.All() {
		logger.Warn("property rejected: invalid APE key", "key", key, "values", values)
	}

	var opts []apetag.SaveOption
	if cfg.Backup != "" {
		opts = append(opts, apetag.WithBackup(cfg.Backup))
	}
	if cfg.Validate {
		opts = append(opts, apetag.WithValidation())
	}
	if err := apetag.WriteTagFile(cfg.Out, t, opts...); err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "wrote %s: %d items, %d bytes\n",
		cfg.Out, t.ItemMap().Len(), t.Footer().CompleteTagSize())
	return err
}
