package harness

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func u32(v uint32) *uint32 { return &v }

// conformance is the scenario suite from the architecture's testable
// properties: overflow trapping, 64-bit multiply results, narrow-load
// extension, the branch delay slot, and trap atomicity.
var conformance = []Vector{
	{
		Name:      "add overflow faults and rolls back",
		Regs:      []RegValue{{1, 0x7FFFFFFF}, {2, 1}},
		Words:     []MemWord{{0, 0x00221820}}, // add r3, r1, r2
		WantFault: "ArithmeticOverflow",
		WantRegs:  []RegValue{{3, 0}},
		WantPC:    u32(0),
	},
	{
		Name:     "addu wraps",
		Regs:     []RegValue{{1, 0x7FFFFFFF}, {2, 1}},
		Words:    []MemWord{{0, 0x00221821}}, // addu r3, r1, r2
		WantRegs: []RegValue{{3, 0x80000000}},
		WantPC:   u32(4),
	},
	{
		Name: "multu into hi/lo",
		Regs: []RegValue{{1, 0xFFFFFFFF}, {2, 1}},
		Words: []MemWord{
			{0, 0x00220019}, // multu r1, r2
			{4, 0x00001810}, // mfhi r3
			{8, 0x00002012}, // mflo r4
		},
		Steps:    3,
		WantRegs: []RegValue{{3, 0}, {4, 0xFFFFFFFF}},
	},
	{
		Name: "mult sign-extends the product",
		Regs: []RegValue{{1, 0xFFFFFFFF}, {2, 1}},
		Words: []MemWord{
			{0, 0x00220018}, // mult r1, r2
			{4, 0x00001810}, // mfhi r3
			{8, 0x00002012}, // mflo r4
		},
		Steps:    3,
		WantRegs: []RegValue{{3, 0xFFFFFFFF}, {4, 0xFFFFFFFF}},
	},
	{
		Name: "lb sign-extends",
		Regs: []RegValue{{1, 7}},
		Words: []MemWord{
			{0, 0x80230000}, // lb r3, 0(r1)
		},
		Bytes:    []MemByte{{4, 0x21}, {5, 0x43}, {6, 0x65}, {7, 0x87}},
		WantRegs: []RegValue{{3, 0xFFFFFF87}},
	},
	{
		Name: "lbu zero-extends",
		Regs: []RegValue{{1, 7}},
		Words: []MemWord{
			{0, 0x90230000}, // lbu r3, 0(r1)
		},
		Bytes:    []MemByte{{4, 0x21}, {5, 0x43}, {6, 0x65}, {7, 0x87}},
		WantRegs: []RegValue{{3, 0x00000087}},
	},
	{
		Name: "jump executes its delay slot",
		Words: []MemWord{
			{0, 0x08000002}, // j 0x8
			{4, 0x24010001}, // addiu r1, r0, 1
		},
		Steps:    2,
		WantPC:   u32(8),
		WantRegs: []RegValue{{1, 1}},
	},
	{
		Name:      "syscall leaves state unchanged",
		Regs:      []RegValue{{2, 0}},
		Words:     []MemWord{{0, 0x0000000C}},
		WantFault: "SystemCall",
		WantPC:    u32(0),
		WantRegs:  []RegValue{{2, 0}},
	},
}

func TestConformanceSuite(t *testing.T) {
	for _, v := range conformance {
		t.Run(v.Name, func(t *testing.T) {
			if err := Run(v); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRunDetectsMismatches(t *testing.T) {
	// Expected fault that never arrives.
	v := Vector{
		Name:      "bogus fault",
		Words:     []MemWord{{0, 0x00221821}},
		WantFault: "Break",
	}
	if err := Run(v); err == nil || !strings.Contains(err.Error(), "want fault") {
		t.Errorf("missing-fault mismatch not reported: %v", err)
	}

	// Wrong register value.
	v = Vector{
		Name:     "bogus register",
		Words:    []MemWord{{0, 0x00221821}},
		WantRegs: []RegValue{{3, 0xDEAD}},
	}
	if err := Run(v); err == nil || !strings.Contains(err.Error(), "r3") {
		t.Errorf("register mismatch not reported: %v", err)
	}

	// Unknown fault name.
	v = Vector{Name: "bad name", WantFault: "Kaboom", Words: []MemWord{{0, 0x00221821}}}
	if err := Run(v); err == nil {
		t.Error("unknown fault name accepted")
	}
}

func TestVectorFile(t *testing.T) {
	f, err := os.Open("testdata/conformance.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	vectors, err := ReadJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) == 0 {
		t.Fatal("empty suite")
	}
	for _, v := range vectors {
		t.Run(v.Name, func(t *testing.T) {
			if err := Run(v); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, conformance); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(conformance) {
		t.Fatalf("round trip lost vectors: %d != %d", len(got), len(conformance))
	}
	for _, v := range got {
		if err := Run(v); err != nil {
			t.Errorf("%s (after round trip): %v", v.Name, err)
		}
	}
}
