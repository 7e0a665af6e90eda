// Package editscript loads YAML edit scripts: a list of source files to put
// on a timeline followed by the edits to perform on it.
//
//	media:
//	  - intro.mp4
//	  - path: interview.mov
//	    as: talk
//	steps:
//	  - split: 12.5
//	  - trim: {clip: talk, start: 1, end: "0:42.5"}
//	  - move: {clip: 3, to: 0}
//	  - reorder: [2, 1, 3]
//	  - delete: 2
//	  - select: 1
//	  - seek: 4
//
// Clip references are either a 1-based position in timeline order or a media
// alias, which names the first clip cut from that source.
package editscript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names a step.
type Kind string

const (
	KindSplit   Kind = "split"
	KindTrim    Kind = "trim"
	KindMove    Kind = "move"
	KindReorder Kind = "reorder"
	KindDelete  Kind = "delete"
	KindSelect  Kind = "select"
	KindSeek    Kind = "seek"
)

// Script is a parsed edit script.
type Script struct {
	Media []Media
	Steps []Step
}

// Media is a source to append to the timeline, in order.
type Media struct {
	Line  int
	Path  string
	Alias string
}

// Step is one edit. Which fields are set depends on Kind: At for split, seek
// and move; Start and End for trim; Clip for trim, move, delete and select;
// Order for reorder.
type Step struct {
	Line  int
	Kind  Kind
	Clip  string
	At    float64
	Start float64
	End   float64
	Order []string
}

func (s Step) String() string {
	switch s.Kind {
	case KindSplit, KindSeek:
		return fmt.Sprintf("%s %g", s.Kind, s.At)
	case KindTrim:
		return fmt.Sprintf("trim %s [%g,%g)", s.Clip, s.Start, s.End)
	case KindMove:
		return fmt.Sprintf("move %s to %g", s.Clip, s.At)
	case KindReorder:
		return "reorder " + strings.Join(s.Order, ",")
	default:
		return fmt.Sprintf("%s %s", s.Kind, s.Clip)
	}
}

type rawScript struct {
	Media yaml.Node `yaml:"media"`
	Steps yaml.Node `yaml:"steps"`
}

// Load reads and validates the script at path. Relative media paths resolve
// against the script's directory. When only some entries are invalid the
// parsed script is returned together with ValidationErrors.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	script, err := Parse(data)
	if err != nil {
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			return Script{}, err
		}
	}
	base := filepath.Dir(path)
	for i := range script.Media {
		if !filepath.IsAbs(script.Media[i].Path) {
			script.Media[i].Path = filepath.Join(base, script.Media[i].Path)
		}
	}
	return script, err
}

// Parse decodes a script from YAML.
func Parse(data []byte) (Script, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Script{}, errors.New("edit script is empty")
	}
	var raw rawScript
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Script{}, fmt.Errorf("parse YAML: %w", err)
	}

	var (
		script Script
		errs   ValidationErrors
	)

	aliases := map[string]bool{}
	for _, node := range sequence(&raw.Media, "media", &errs) {
		m, err := parseMedia(node)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		if m.Alias != "" {
			if aliases[m.Alias] {
				errs = append(errs, ValidationError{Line: m.Line, Field: "as", Message: fmt.Sprintf("duplicate alias %q", m.Alias)})
				continue
			}
			if _, err := strconv.Atoi(m.Alias); err == nil {
				errs = append(errs, ValidationError{Line: m.Line, Field: "as", Message: "alias must not be a number"})
				continue
			}
			aliases[m.Alias] = true
		}
		script.Media = append(script.Media, m)
	}

	for _, node := range sequence(&raw.Steps, "steps", &errs) {
		step, stepErrs := parseStep(node)
		if len(stepErrs) > 0 {
			errs = append(errs, stepErrs...)
			continue
		}
		script.Steps = append(script.Steps, step)
	}

	if len(script.Media) == 0 && len(errs) == 0 {
		errs = append(errs, ValidationError{Field: "media", Message: "at least one media entry is required"})
	}
	if len(errs) > 0 {
		return script, errs
	}
	return script, nil
}

func sequence(node *yaml.Node, field string, errs *ValidationErrors) []*yaml.Node {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		*errs = append(*errs, ValidationError{Line: node.Line, Field: field, Message: "must be a list"})
		return nil
	}
	return node.Content
}

func parseMedia(node *yaml.Node) (Media, *ValidationError) {
	m := Media{Line: node.Line}
	switch node.Kind {
	case yaml.ScalarNode:
		m.Path = strings.TrimSpace(node.Value)
	case yaml.MappingNode:
		var fields struct {
			Path  string `yaml:"path"`
			Alias string `yaml:"as"`
		}
		if err := node.Decode(&fields); err != nil {
			return m, &ValidationError{Line: node.Line, Field: "media", Message: err.Error()}
		}
		m.Path = strings.TrimSpace(fields.Path)
		m.Alias = strings.TrimSpace(fields.Alias)
	default:
		return m, &ValidationError{Line: node.Line, Field: "media", Message: "expected a path or a mapping"}
	}
	if m.Path == "" {
		return m, &ValidationError{Line: node.Line, Field: "path", Message: "is required"}
	}
	return m, nil
}

func parseStep(node *yaml.Node) (Step, []ValidationError) {
	step := Step{Line: node.Line}
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return step, []ValidationError{{Line: node.Line, Message: "step must be a mapping with exactly one action"}}
	}
	key, value := node.Content[0], node.Content[1]
	step.Kind = Kind(strings.ToLower(strings.TrimSpace(key.Value)))
	fail := func(field, format string, args ...any) []ValidationError {
		return []ValidationError{{Line: value.Line, Field: field, Message: fmt.Sprintf(format, args...)}}
	}

	switch step.Kind {
	case KindSplit, KindSeek:
		at, err := parseTime(value)
		if err != nil {
			return step, fail(string(step.Kind), "%v", err)
		}
		step.At = at
	case KindDelete, KindSelect:
		if value.Kind != yaml.ScalarNode || strings.TrimSpace(value.Value) == "" {
			return step, fail(string(step.Kind), "expected a clip reference")
		}
		step.Clip = strings.TrimSpace(value.Value)
	case KindReorder:
		if value.Kind != yaml.SequenceNode || len(value.Content) == 0 {
			return step, fail("reorder", "expected a list of clip references")
		}
		for _, item := range value.Content {
			ref := strings.TrimSpace(item.Value)
			if item.Kind != yaml.ScalarNode || ref == "" {
				return step, fail("reorder", "expected a list of clip references")
			}
			step.Order = append(step.Order, ref)
		}
	case KindTrim:
		fields, errs := stepFields(value, "clip", "start", "end")
		if len(errs) > 0 {
			return step, errs
		}
		step.Clip = strings.TrimSpace(fields["clip"].Value)
		var err error
		if step.Start, err = parseTime(fields["start"]); err != nil {
			return step, fail("start", "%v", err)
		}
		if step.End, err = parseTime(fields["end"]); err != nil {
			return step, fail("end", "%v", err)
		}
		if step.Start >= step.End {
			return step, fail("trim", "start %g must be before end %g", step.Start, step.End)
		}
	case KindMove:
		fields, errs := stepFields(value, "clip", "to")
		if len(errs) > 0 {
			return step, errs
		}
		step.Clip = strings.TrimSpace(fields["clip"].Value)
		at, err := parseTime(fields["to"])
		if err != nil {
			return step, fail("to", "%v", err)
		}
		step.At = at
	default:
		return step, []ValidationError{{Line: key.Line, Message: fmt.Sprintf("unknown action %q", key.Value)}}
	}
	return step, nil
}

func stepFields(node *yaml.Node, required ...string) (map[string]*yaml.Node, []ValidationError) {
	if node.Kind != yaml.MappingNode {
		return nil, []ValidationError{{Line: node.Line, Message: "expected a mapping with " + strings.Join(required, ", ")}}
	}
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields[strings.ToLower(node.Content[i].Value)] = node.Content[i+1]
	}
	var errs []ValidationError
	for _, name := range required {
		if v, ok := fields[name]; !ok || strings.TrimSpace(v.Value) == "" {
			errs = append(errs, ValidationError{Line: node.Line, Field: name, Message: "is required"})
		}
	}
	return fields, errs
}

// parseTime accepts plain seconds ("12.5") or clock notation ("1:02.5",
// "1:00:00").
func parseTime(node *yaml.Node) (float64, error) {
	if node == nil || node.Kind != yaml.ScalarNode {
		return 0, errors.New("expected a time")
	}
	return ParseSeconds(node.Value)
}

// ParseSeconds parses seconds or [h:]mm:ss[.fff] notation.
func ParseSeconds(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("time is required")
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	total := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid time %q: component %s out of range", value, part)
		}
		if i < len(parts)-1 && v != float64(int(v)) {
			return 0, fmt.Errorf("invalid time %q: only seconds may be fractional", value)
		}
		total = total*60 + v
	}
	return total, nil
}
