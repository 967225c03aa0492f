package harness

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ltlcheck/internal/ltl"
	"github.com/roach88/ltlcheck/internal/snapshot"
)

// Scenario is a trace check: a formula over CUE propositions, a trace of
// JSON states, and the verdict the trace is expected to produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name" validate:"required"`

	// Description explains what this scenario checks.
	Description string `yaml:"description" validate:"required"`

	// Props maps proposition names to CUE constraints over one state.
	Props map[string]string `yaml:"props,omitempty" validate:"dive,keys,required,endkeys,required"`

	// Relations maps relation names to CUE constraints over prev and next.
	Relations map[string]string `yaml:"relations,omitempty" validate:"dive,keys,required,endkeys,required"`

	// Formula is the property to check.
	Formula *Node `yaml:"formula" validate:"required"`

	// Trace lists the states inline. Exactly one of Trace and TraceFile is
	// set; an empty inline list is a valid (empty) trace.
	Trace []map[string]any `yaml:"trace,omitempty" validate:"required_without=TraceFile,excluded_with=TraceFile"`

	// TraceFile names a JSON-lines (.jsonl) or YAML list (.yaml, .yml)
	// file, relative to the scenario file.
	TraceFile string `yaml:"trace_file,omitempty"`

	// Expect is optional; without it a run always passes unless it errors.
	Expect *Expect `yaml:"expect,omitempty"`

	dir  string
	hash string
}

// Expect describes the outcome a scenario must produce.
type Expect struct {
	// Verdict is the final verdict, e.g. "probably-true" or "pt".
	Verdict string `yaml:"verdict,omitempty" validate:"required_without=Error,validity"`

	// Tags is the exact blame set of the final verdict. Omit to skip the
	// check; use [] to require no blame.
	Tags []string `yaml:"tags,omitempty" validate:"dive,required"`

	// Steps lists the partial verdict after each state, in order.
	Steps []string `yaml:"steps,omitempty" validate:"dive,validity"`

	// Error is the evaluation error code the run must stop with.
	Error string `yaml:"error,omitempty" validate:"omitempty,oneof=NOT_GUARDED MISSING_PATH PREDICATE"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("validity", validateValidity)
	return v
}

// validateValidity accepts the empty string so that required_without
// alone decides whether a verdict must be present.
func validateValidity(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := ltl.ParseValidity(s)
	return err == nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML. dir resolves a relative trace_file.
func ParseScenario(data []byte, dir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	scenario.dir = dir
	scenario.hash = snapshot.HashBytes(snapshot.DomainScenario, data)
	return &scenario, nil
}

// Hash returns the domain-separated hash of the scenario source, or ""
// for scenarios built in code.
func (s *Scenario) Hash() string {
	return s.hash
}

// validateScenario runs struct validation, then checks that every name
// the formula references is defined.
func validateScenario(s *Scenario) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}

	return s.Formula.walk(func(n *Node) error {
		switch n.Op {
		case OpProp:
			if _, ok := s.Props[n.Name]; !ok {
				return fmt.Errorf("line %d: undefined prop %q", n.Line, n.Name)
			}
		case OpRelation:
			if _, ok := s.Relations[n.Name]; !ok {
				return fmt.Errorf("line %d: undefined relation %q", n.Line, n.Name)
			}
		}
		return nil
	})
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Scenario.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "required_without":
			msgs = append(msgs, fmt.Sprintf("%s is required when %s is not set", field, yamlName(fe.Param())))
		case "excluded_with":
			msgs = append(msgs, fmt.Sprintf("%s cannot be combined with %s", field, yamlName(fe.Param())))
		case "validity":
			msgs = append(msgs, fmt.Sprintf("%s: unknown verdict %q", field, fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// yamlName maps the Go field names used in validator parameters back to
// their YAML keys.
func yamlName(field string) string {
	switch field {
	case "TraceFile":
		return "trace_file"
	case "Trace":
		return "trace"
	case "Error":
		return "error"
	}
	return strings.ToLower(field)
}

// LoadTrace returns the scenario's states, reading TraceFile if set.
func (s *Scenario) LoadTrace() ([]snapshot.Object, error) {
	if s.TraceFile == "" {
		trace := make([]snapshot.Object, 0, len(s.Trace))
		for i, raw := range s.Trace {
			obj, err := snapshot.ObjectFromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("trace state %d: %w", i, err)
			}
			trace = append(trace, obj)
		}
		return trace, nil
	}

	path := s.TraceFile
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".jsonl":
		return parseJSONLines(data)
	case ".yaml", ".yml":
		return parseYAMLTrace(data)
	default:
		return nil, fmt.Errorf("unsupported trace file extension %q (want .jsonl, .yaml or .yml)", ext)
	}
}

// parseJSONLines reads one JSON object per non-blank line.
func parseJSONLines(data []byte) ([]snapshot.Object, error) {
	trace := []snapshot.Object{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		obj, err := snapshot.ParseObject(text)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		trace = append(trace, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return trace, nil
}

func parseYAMLTrace(data []byte) ([]snapshot.Object, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse trace YAML: %w", err)
	}
	trace := make([]snapshot.Object, 0, len(raw))
	for i, r := range raw {
		obj, err := snapshot.ObjectFromAny(r)
		if err != nil {
			return nil, fmt.Errorf("trace state %d: %w", i, err)
		}
		trace = append(trace, obj)
	}
	return trace, nil
}
