// Package dataset loads listings and roommate profiles from YAML or JSON
// files, falling back to a built-in sample.
package dataset

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/spigell/roomeo/internal/housing"
)

//go:embed sample.yaml
var sampleYAML []byte

const (
	listingsKey  = "listings"
	roommatesKey = "roommates"
)

var ErrUnsupportedFormat = errors.New("unsupported data format")

// Data is a loaded set of records.
type Data struct {
	Listings  housing.Listings `mapstructure:"listings"`
	Roommates housing.Profiles `mapstructure:"roommates"`
}

// Files points at the record files. Empty paths use the built-in sample.
type Files struct {
	Listings  string `mapstructure:"listings-file"`
	Roommates string `mapstructure:"roommates-file"`
}

// Sample returns the built-in records.
func Sample() (*Data, error) {
	doc, err := parse(sampleYAML, ".yaml")
	if err != nil {
		return nil, err
	}
	return decodeData(doc)
}

// Open loads listings and roommates from their files, using the sample for
// any file that is not configured.
func Open(files Files) (*Data, error) {
	data, err := Sample()
	if err != nil {
		return nil, errors.Wrap(err, "loading sample data")
	}

	if files.Listings != "" {
		if data.Listings, err = LoadListings(files.Listings); err != nil {
			return nil, err
		}
	}
	if files.Roommates != "" {
		if data.Roommates, err = LoadRoommates(files.Roommates); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// LoadListings reads listings from a file holding either a bare list or a
// document with a "listings" key.
func LoadListings(path string) (housing.Listings, error) {
	var out housing.Listings
	if err := loadSection(path, listingsKey, &out); err != nil {
		return nil, err
	}
	normalizeListings(out)
	if err := checkIDs(out.IDs()); err != nil {
		return nil, errors.Wrapf(err, "listings in %s", path)
	}
	return out, nil
}

// LoadRoommates reads profiles from a file holding either a bare list or a
// document with a "roommates" key.
func LoadRoommates(path string) (housing.Profiles, error) {
	var out housing.Profiles
	if err := loadSection(path, roommatesKey, &out); err != nil {
		return nil, err
	}
	normalizeProfiles(out)
	if err := checkIDs(profileIDs(out)); err != nil {
		return nil, errors.Wrapf(err, "roommates in %s", path)
	}
	return out, nil
}

func loadSection(path, key string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	doc, err := parse(raw, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}

	section := doc
	if m, ok := doc.(map[string]any); ok {
		section = m[key]
	}
	if err := decode(section, target); err != nil {
		return errors.Wrapf(err, "decoding %s from %s", key, path)
	}
	return nil
}

func parse(raw []byte, ext string) (any, error) {
	var doc any
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	return doc, nil
}

func decodeData(doc any) (*Data, error) {
	data := &Data{}
	if err := decode(doc, data); err != nil {
		return nil, errors.Wrap(err, "decoding records")
	}
	normalizeListings(data.Listings)
	normalizeProfiles(data.Roommates)
	return data, nil
}

// decode maps loosely typed documents onto records; "2" and 2 both decode
// into an int field.
func decode(input, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func normalizeListings(ls housing.Listings) {
	for i := range ls {
		l := &ls[i]
		l.ID = strings.TrimSpace(l.ID)
		l.Title = strings.TrimSpace(l.Title)
		l.Location = strings.TrimSpace(l.Location)
		l.RoomType = strings.TrimSpace(l.RoomType)
		l.Facilities = housing.UniqueFold(l.Facilities)
	}
}

func normalizeProfiles(ps housing.Profiles) {
	for i := range ps {
		p := &ps[i]
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		p.Budget = p.Budget.Ordered()
		p.Lifestyle = housing.UniqueFold(p.Lifestyle)
	}
}

func profileIDs(ps housing.Profiles) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func checkIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return errors.Errorf("record %d has no id", i)
		}
		if _, ok := seen[id]; ok {
			return errors.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
