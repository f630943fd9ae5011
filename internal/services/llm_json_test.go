package services

import "testing"

type jsonTarget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeModelJSONDirect(t *testing.T) {
	var target jsonTarget
	err := decodeModelJSON(`{"name": "direct", "count": 2}`, &target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Name != "direct" || target.Count != 2 {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestDecodeModelJSONFencedBlock(t *testing.T) {
	response := "Here you go:\n```json\n{\"name\": \"fenced\", \"count\": 1}\n```\nDone."

	var target jsonTarget
	if err := decodeModelJSON(response, &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Name != "fenced" {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestDecodeModelJSONPlainFence(t *testing.T) {
	response := "```\n{\"name\": \"plain\", \"count\": 3}\n```"

	var target jsonTarget
	if err := decodeModelJSON(response, &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Name != "plain" {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestDecodeModelJSONUnclosedFence(t *testing.T) {
	response := "```json\n{\"name\": \"truncated\", \"count\": 4}"

	var target jsonTarget
	if err := decodeModelJSON(response, &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Name != "truncated" {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestDecodeModelJSONGarbage(t *testing.T) {
	var target jsonTarget
	if err := decodeModelJSON("I could not produce JSON, sorry.", &target); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestDecodeModelJSONGarbageInsideFence(t *testing.T) {
	var target jsonTarget
	if err := decodeModelJSON("```json\nstill not json\n```", &target); err == nil {
		t.Fatal("expected error when fenced body is not JSON")
	}
}
