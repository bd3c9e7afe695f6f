package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/model"
)

// Renderer fills a form state from terminal prompts. Every answer goes
// through FormState.OnValueChange; a property is asked again until its
// validation passes.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	includeErrors     bool
	sanitize          bool
	theme             Theme
	fields            map[string]Field
	factories         map[string]ItemFactory
	logger            logging.Logger
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, r.outputFormat)
	}
	r.logger = logging.OrDefault(r.logger)

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Fill.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	case OutputFormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Fill prompts for every property of the root node and its related nodes,
// validates the whole form and returns the serialized result. When the
// form is still invalid the remaining errors are printed and ErrInvalid is
// returned.
func (r *Renderer) Fill(ctx context.Context, fs *formstate.FormState) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fs == nil || fs.Root() == nil {
		return nil, errors.New("tui: form state is nil")
	}

	root := fs.Root()
	if err := r.fillNode(ctx, fs, root, ""); err != nil {
		return nil, err
	}

	if err := fs.ValidateAll(formstate.ValidateArgs{}); err != nil {
		return nil, err
	}
	if !fs.IsValid() {
		r.reportErrors(ctx, root, "")
		return nil, ErrInvalid
	}

	values := root.ToObject(model.ObjectOptions{IncludeErrors: r.includeErrors})
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) fillNode(ctx context.Context, fs *formstate.FormState, node *model.Node, path string) error {
	for _, property := range node.Keys() {
		propertyPath := joinPath(path, property)
		switch node.Relation(property) {
		case model.RelationHasOne:
			if child := node.One(property); child != nil {
				if err := r.fillNode(ctx, fs, child, propertyPath); err != nil {
					return err
				}
			}
		case model.RelationHasMany:
			if err := r.fillMany(ctx, fs, node, property, propertyPath); err != nil {
				return err
			}
		default:
			if err := r.promptProperty(ctx, fs, node, property, propertyPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) fillMany(ctx context.Context, fs *formstate.FormState, node *model.Node, property, path string) error {
	for idx, child := range node.Many(property) {
		if child == nil {
			continue
		}
		if err := r.fillNode(ctx, fs, child, fmt.Sprintf("%s.%d", path, idx)); err != nil {
			return err
		}
	}

	factory := r.factoryFor(node, property)
	if factory == nil {
		return nil
	}
	label := r.fieldFor(node, property).Label
	if label == "" {
		label = property
	}
	for {
		message := fmt.Sprintf("Add another %s?", label)
		if len(node.Many(property)) == 0 {
			message = fmt.Sprintf("Add %s?", label)
		}
		more, err := r.driver.Confirm(ctx, ConfirmConfig{Message: r.theme.PromptPrefix + message})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		child := factory()
		if child == nil {
			return nil
		}
		idx := len(node.Many(property))
		if err := node.Append(property, child); err != nil {
			return err
		}
		fs.Update()
		if err := r.fillNode(ctx, fs, child, fmt.Sprintf("%s.%d", path, idx)); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptProperty(ctx context.Context, fs *formstate.FormState, node *model.Node, property, path string) error {
	field := r.fieldFor(node, property)
	if field.Skip {
		return nil
	}
	label := r.theme.PromptPrefix + displayLabel(field, property)

	var opts []formstate.InputOption
	if !node.Validator().Has(property) {
		opts = append(opts, formstate.SkipValidationOnChange())
	}
	if r.sanitize && !field.Secret {
		opts = append(opts, formstate.Sanitize())
	}

	for {
		value, retry, err := r.ask(ctx, field, label, node.Get(property))
		if err != nil {
			return err
		}
		if retry != "" {
			r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", path, retry))
			continue
		}

		if err := fs.OnValueChange(value, node, property, opts...); err != nil {
			return err
		}
		if msg := node.Validator().FirstErrorFor(property); msg != "" {
			r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", path, msg))
			continue
		}
		r.logger.Debug("value accepted", "path", path)
		return nil
	}
}

// ask prompts once. A non-empty retry message means the answer could not be
// converted and the prompt should be shown again.
func (r *Renderer) ask(ctx context.Context, field Field, label string, current any) (any, string, error) {
	switch cur := current.(type) {
	case bool:
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: cur, Help: field.Help})
		return resp, "", err
	case []string:
		if len(field.Options) > 0 {
			indices, err := r.driver.MultiSelect(ctx, SelectConfig{
				Message:  label,
				Options:  field.Options,
				Defaults: indicesOf(field.Options, cur),
				Help:     field.Help,
			})
			if err != nil {
				return nil, "", err
			}
			return defaultsFromIndices(field.Options, indices), "", nil
		}
		resp, err := r.driver.Input(ctx, InputConfig{Message: label, Default: strings.Join(cur, ", "), Help: field.Help})
		if err != nil {
			return nil, "", err
		}
		return splitList(resp), "", nil
	}

	if len(field.Options) > 0 {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, textOf(current)),
			Help:         field.Help,
		})
		if err != nil {
			return nil, "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, "selection out of range", nil
		}
		return field.Options[idx], "", nil
	}

	var resp string
	var err error
	switch {
	case field.Secret:
		resp, err = r.driver.Password(ctx, InputConfig{Message: label, Help: field.Help})
	case field.TextArea:
		resp, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: textOf(current), Help: field.Help})
	default:
		resp, err = r.driver.Input(ctx, InputConfig{Message: label, Default: textOf(current), Help: field.Help})
	}
	if err != nil {
		return nil, "", err
	}
	return convertLike(current, resp)
}

func (r *Renderer) reportErrors(ctx context.Context, node *model.Node, path string) {
	errs := node.Errors()
	for _, property := range errs.Properties() {
		for _, msg := range errs[property] {
			r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", joinPath(path, property), msg))
		}
	}
	node.Related(func(property string, index int, child *model.Node) bool {
		childPath := joinPath(path, property)
		if index >= 0 {
			childPath = fmt.Sprintf("%s.%d", childPath, index)
		}
		r.reportErrors(ctx, child, childPath)
		return true
	})
}

func (r *Renderer) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Debug("info message dropped", "err", err)
	}
}

func (r *Renderer) fieldFor(node *model.Node, property string) Field {
	if field, ok := r.fields[node.Type().Name()+"."+property]; ok {
		return field
	}
	return r.fields[property]
}

func (r *Renderer) factoryFor(node *model.Node, property string) ItemFactory {
	if factory, ok := r.factories[node.Type().Name()+"."+property]; ok {
		return factory
	}
	return r.factories[property]
}

func displayLabel(field Field, property string) string {
	if field.Label != "" {
		return field.Label
	}
	return property
}

func joinPath(prefix, property string) string {
	if prefix == "" {
		return property
	}
	return prefix + "." + property
}

func textOf(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// convertLike parses resp into the Go type of current so numeric properties
// keep their type.
func convertLike(current any, resp string) (any, string, error) {
	trimmed := strings.TrimSpace(resp)
	switch current.(type) {
	case int:
		if trimmed == "" {
			return 0, "", nil
		}
		i, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, "not a whole number", nil
		}
		return i, "", nil
	case int64:
		if trimmed == "" {
			return int64(0), "", nil
		}
		i, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, "not a whole number", nil
		}
		return i, "", nil
	case float64:
		if trimmed == "" {
			return float64(0), "", nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, "not a number", nil
		}
		return f, "", nil
	default:
		return resp, "", nil
	}
}
