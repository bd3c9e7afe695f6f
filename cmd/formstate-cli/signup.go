package main

import (
	"strconv"

	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/validation"
)

var (
	signupType  = model.NewType("signup", model.HasMany("addresses"))
	addressType = model.NewType("address")

	signupOrder  = []string{"firstName", "lastName", "email", "password", "passwordConfirmation", "newsletter", "addresses"}
	addressOrder = []string{"street", "city", "zip"}
)

const minPasswordLength = 8

func value(fn validation.Func) model.Rule {
	return func(v any, _ *model.Node, _ *model.Validator) validation.Result {
		return fn(v)
	}
}

func required(v any) validation.Result {
	return validation.Required(v)
}

var signupRules = map[string]model.Rule{
	"firstName": value(required),
	"lastName":  value(required),
	"email": func(v any, _ *model.Node, _ *model.Validator) validation.Result {
		return validation.Chain(
			func() validation.Result { return validation.Required(v) },
			func() validation.Result { return validation.Tag("email", validation.MessageNotEmail)(v) },
		)
	},
	"password": func(v any, _ *model.Node, _ *model.Validator) validation.Result {
		return validation.Chain(
			func() validation.Result { return validation.Required(v) },
			func() validation.Result { return validation.MinLength(v, minPasswordLength) },
		)
	},
	"passwordConfirmation": func(v any, node *model.Node, _ *model.Validator) validation.Result {
		return validation.Equals(v, node.Get("password"))
	},
}

var addressRules = map[string]model.Rule{
	"city": value(required),
	"zip": func(v any, _ *model.Node, _ *model.Validator) validation.Result {
		if v == "" {
			return validation.Pass()
		}
		return validation.Tag("numeric")(v)
	},
}

// newSignup builds the sample signup form, seeded with data when given.
func newSignup(data map[string]any, logger logging.Logger) *model.Node {
	values := map[string]any{
		"firstName":            "",
		"lastName":             "",
		"email":                "",
		"password":             "",
		"passwordConfirmation": "",
		"newsletter":           false,
	}
	for key, raw := range data {
		if _, known := values[key]; known && raw != nil {
			values[key] = raw
		}
	}

	var addresses []*model.Node
	if items, ok := data["addresses"].([]any); ok {
		for _, item := range items {
			if fields, ok := item.(map[string]any); ok {
				addresses = append(addresses, newAddress(fields, logger))
			}
		}
	}
	if addresses == nil {
		addresses = []*model.Node{}
	}
	values["addresses"] = addresses

	return model.Make(model.Config{
		Type:   signupType,
		Data:   values,
		Order:  signupOrder,
		Rules:  signupRules,
		Logger: logger,
	})
}

func newAddress(data map[string]any, logger logging.Logger) *model.Node {
	values := map[string]any{"street": "", "city": "", "zip": ""}
	for key, raw := range data {
		if _, known := values[key]; known && raw != nil {
			values[key] = textValue(raw)
		}
	}
	return model.Make(model.Config{
		Type:   addressType,
		Data:   values,
		Order:  addressOrder,
		Rules:  addressRules,
		Logger: logger,
	})
}

// signupFields are the prompt hints of the sample form.
func signupFields(logger logging.Logger) []tui.Option {
	return []tui.Option{
		tui.WithField("signup.firstName", tui.Field{Label: "First name"}),
		tui.WithField("signup.lastName", tui.Field{Label: "Last name"}),
		tui.WithField("signup.email", tui.Field{Label: "Email"}),
		tui.WithField("signup.password", tui.Field{Label: "Password", Secret: true, Help: "at least 8 characters"}),
		tui.WithField("signup.passwordConfirmation", tui.Field{Label: "Confirm password", Secret: true}),
		tui.WithField("signup.newsletter", tui.Field{Label: "Subscribe to the newsletter?"}),
		tui.WithField("signup.addresses", tui.Field{Label: "address"}),
		tui.WithField("address.street", tui.Field{Label: "Street"}),
		tui.WithField("address.city", tui.Field{Label: "City"}),
		tui.WithField("address.zip", tui.Field{Label: "ZIP code"}),
		tui.WithItemFactory("signup.addresses", func() *model.Node {
			return newAddress(nil, logger)
		}),
	}
}

// textValue keeps address fields as strings; YAML decodes bare zip codes as ints.
func textValue(raw any) any {
	if v, ok := raw.(int); ok {
		return strconv.Itoa(v)
	}
	return raw
}
