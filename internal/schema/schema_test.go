package schema

import (
	"strings"
	"testing"
)

func TestPhysicalName(t *testing.T) {
	partitioned := Table{Name: "blocks", Partitioned: true}
	if got := partitioned.PhysicalName("base"); got != "blocks_base" {
		t.Fatalf("PhysicalName() = %q, want %q", got, "blocks_base")
	}
	shared := Table{Name: "users", Partitioned: false}
	if got := shared.PhysicalName("base"); got != "users" {
		t.Fatalf("PhysicalName() = %q, want %q", got, "users")
	}
}

func TestTextBindsTablesToPartition(t *testing.T) {
	text := Default().Text("base")
	for _, want := range []string{"blocks_base", "transactions_base", "tokens_base", "transfer_erc721_base"} {
		if !strings.Contains(text, want) {
			t.Errorf("Text() missing table %q", want)
		}
	}
	if !strings.Contains(text, "**users**") {
		t.Error("Text() should keep the cross-partition users table unsuffixed")
	}
	if strings.Contains(text, "%[1]s") {
		t.Error("Text() leaked an unexpanded format verb")
	}
}

func TestExamplesTextBindsPartition(t *testing.T) {
	text := Default().ExamplesText("arbitrum")
	if !strings.Contains(text, "FROM blocks_arbitrum") {
		t.Fatalf("ExamplesText() did not bind partition key:\n%s", text)
	}
	if strings.Contains(text, "_base") {
		t.Fatal("ExamplesText() still references the default partition")
	}
}

func TestCrossPartitionTable(t *testing.T) {
	if got := Default().CrossPartitionTable(); got != "users" {
		t.Fatalf("CrossPartitionTable() = %q, want %q", got, "users")
	}
}
