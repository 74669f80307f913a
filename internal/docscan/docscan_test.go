package docscan

import "testing"

func TestParseSummaryOnly(t *testing.T) {
	doc, err := Parse("Adds two numbers.")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Summary != "Adds two numbers." || len(doc.Tags) != 0 {
		t.Fatalf("Parse() = %+v", doc)
	}
}

func TestParseSummaryWithTags(t *testing.T) {
	doc, err := Parse("Adds two numbers.\n@param a the first operand\n@param b the second operand\n@returns the sum")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Tags) != 3 {
		t.Fatalf("Tags = %+v; want 3 entries", doc.Tags)
	}
	if doc.Tags[0].Kind != "param" || doc.Tags[0].Name != "a" {
		t.Fatalf("Tags[0] = %+v", doc.Tags[0])
	}
	if doc.Tags[2].Kind != "returns" {
		t.Fatalf("Tags[2] = %+v", doc.Tags[2])
	}
}

func TestTopicConvertsParamTags(t *testing.T) {
	doc, err := Parse("Adds two numbers.\n@param a the first operand")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	topic := doc.Topic("std.math.add")
	if topic.Name != "std.math.add" || len(topic.Params) != 1 || topic.Params[0].Name != "a" {
		t.Fatalf("Topic() = %+v", topic)
	}
}

func TestScanModuleSkipsUnparsableComments(t *testing.T) {
	ScanModule(map[string]string{
		"std.example.good": "Does a thing.",
		"std.example.bad":  "@@@not valid@@@",
		"std.example.blank": "",
	})
	// no assertion beyond "does not panic": a malformed comment must not
	// abort the scan of the rest of the map.
}
