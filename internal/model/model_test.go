package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	var tests = []struct {
		name       string
		model      ResourceModel
		expectedId string
		expectedOk bool
	}{
		{"string id", ResourceModel{"IntgGuid": "G1"}, "G1", true},
		{"empty string", ResourceModel{"IntgGuid": ""}, "", false},
		{"missing", ResourceModel{"Name": "ch1"}, "", false},
		{"nil", ResourceModel{"IntgGuid": nil}, "", false},
		{"number", ResourceModel{"IntgGuid": float64(1000000)}, "1000000", true},
		{"json number", ResourceModel{"IntgGuid": json.Number("42")}, "42", true},
		{"structured", ResourceModel{"IntgGuid": map[string]interface{}{}}, "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertion := assert.New(t)
			id, ok := test.model.Identifier("IntgGuid")
			assertion.Equal(test.expectedId, id)
			assertion.Equal(test.expectedOk, ok)
		})
	}
}

func TestWithoutAndCompact(t *testing.T) {
	assertion := assert.New(t)

	m := ResourceModel{"AlertProfileId": "P1", "Extends": "BASE", "Alerts": nil}

	assertion.Equal(ResourceModel{"Alerts": nil}, m.Without("AlertProfileId", "Extends"))
	assertion.Equal(ResourceModel{"AlertProfileId": "P1", "Extends": "BASE"}, m.Compact())
	assertion.Len(m, 3)
}

func TestSetModelFrom(t *testing.T) {
	var tests = []struct {
		name     string
		local    ResourceModel
		ingested ResourceModel
		expected ResourceModel
	}{
		{
			"local identifier wins",
			ResourceModel{"IntgGuid": "LOCAL", "Name": "old"},
			ResourceModel{"IntgGuid": "REMOTE", "Name": "new"},
			ResourceModel{"IntgGuid": "LOCAL", "Name": "new"},
		},
		{
			"identifier omitted by response",
			ResourceModel{"IntgGuid": "LOCAL"},
			ResourceModel{"Name": "new"},
			ResourceModel{"IntgGuid": "LOCAL", "Name": "new"},
		},
		{
			"no local identifier keeps ingested",
			ResourceModel{},
			ResourceModel{"IntgGuid": "REMOTE", "Name": "new"},
			ResourceModel{"IntgGuid": "REMOTE", "Name": "new"},
		},
		{
			"local fields other than identifier are dropped",
			ResourceModel{"IntgGuid": "LOCAL", "Type": "SlackChannel"},
			ResourceModel{"Name": "new"},
			ResourceModel{"IntgGuid": "LOCAL", "Name": "new"},
		},
		{
			"nil ingested returns local",
			ResourceModel{"IntgGuid": "LOCAL"},
			nil,
			ResourceModel{"IntgGuid": "LOCAL"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertion := assert.New(t)
			assertion.Equal(test.expected, SetModelFrom(test.local, test.ingested, "IntgGuid"))
		})
	}
}

func TestSetModelFromKeepsIdentifierType(t *testing.T) {
	assertion := assert.New(t)

	reconciled := SetModelFrom(ResourceModel{"Id": float64(42)}, ResourceModel{"Id": "42", "Name": "new"}, "Id")
	assertion.Equal(float64(42), reconciled["Id"])
	assertion.Equal("new", reconciled["Name"])
}

func TestSetModelFromDoesNotMutate(t *testing.T) {
	assertion := assert.New(t)

	ingested := ResourceModel{"IntgGuid": "REMOTE"}
	SetModelFrom(ResourceModel{"IntgGuid": "LOCAL"}, ingested, "IntgGuid")
	assertion.Equal("REMOTE", ingested["IntgGuid"])
}
