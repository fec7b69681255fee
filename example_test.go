package fieldprofile_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/fieldprofile/fieldprofile-go"
)

func accountProfile() map[string]any {
	return map[string]any{
		"required": []any{"email", "name", "password"},
		"optional": []any{"phone", "company"},
		"field_filters": map[string]any{
			"email": "lc",
			"name":  "trim",
		},
		"constraint_methods": map[string]any{
			"email":    "email",
			"password": "min=8",
		},
	}
}

func ExampleManipulator_Only() {
	m := fieldprofile.New(accountProfile())
	m.Only("email", "phone")

	fmt.Println(m.Required())
	fmt.Println(m.Optional())
	// Output:
	// [email]
	// [phone]
}

func ExampleManipulator_Add() {
	m := fieldprofile.New(nil)
	_, err := m.Add("nickname",
		fieldprofile.AsRequired(),
		fieldprofile.WithFilters("trim"),
		fieldprofile.WithConstraints("max=20"),
		fieldprofile.WithConstraintMsg("max", "too long"),
	)
	if err != nil {
		log.Fatal(err)
	}

	b, err := m.Snapshot().Canonical()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(b))
	// Output: {"constraint_methods":{"nickname":"max=20"},"field_filters":{"nickname":"trim"},"msgs":{"constraints":{"max":"too long"}},"required":["nickname"]}
}

func ExampleManipulator_Add_duplicate() {
	m := fieldprofile.New(accountProfile())
	_, err := m.Add("email")

	var dup *fieldprofile.DuplicateFieldError
	fmt.Println(errors.As(err, &dup), dup.Attribute)
	// Output: true required
}

func ExampleManipulator_Check() {
	m := fieldprofile.New(accountProfile()).Only("email")
	m.Engine = fieldprofile.EngineFunc(func(data any, profile map[string]any) (any, error) {
		record := data.(map[string]any)
		var missing []string
		for _, f := range profile["required"].([]string) {
			if _, ok := record[f]; !ok {
				missing = append(missing, f)
			}
		}
		return missing, nil
	})

	res, err := m.Check(map[string]any{"name": "Ada"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res)
	// Output: [email]
}

func ExampleProfile_Validate() {
	p := fieldprofile.FromMap(map[string]any{
		"required": []any{"email"},
		"optional": []any{"email"},
	})
	fmt.Println(p.Validate())
	// Output: invalid profile: fields both required and optional: email
}
