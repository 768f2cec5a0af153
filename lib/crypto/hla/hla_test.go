package hla

import (
	"bytes"
	"testing"
)

func TestDefaultEngineRound(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	if e.SectorSize() != 2 || e.Sectors() != 10 {
		t.Fatalf("default geometry (%d,%d), want (2,10)", e.SectorSize(), e.Sectors())
	}

	data := []byte("Hello, world!\n")
	tag, state, err := e.Encode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	chal, err := e.GenChallenge(state)
	if err != nil {
		t.Fatal(err)
	}
	proof, err := e.Prove(bytes.NewReader(data), chal, tag)
	if err != nil {
		t.Fatal(err)
	}
	if !e.Verify(proof, chal, state) {
		t.Fatal("honest proof rejected")
	}
}

func TestDeserializers(t *testing.T) {
	e, err := NewEngineParams(16, 4)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}

	tag, state, err := e.Encode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	chal, err := e.GenChallenge(state)
	if err != nil {
		t.Fatal(err)
	}
	proof, err := e.Prove(bytes.NewReader(data), chal, tag)
	if err != nil {
		t.Fatal(err)
	}

	tagRaw, _ := tag.Serialize()
	stateRaw, _ := state.Serialize()
	chalRaw, _ := chal.Serialize()
	proofRaw, _ := proof.Serialize()
	engRaw, _ := e.Serialize()
	pubRaw, _ := e.Public().Serialize()

	tagDes, err := DeserializeTag(tagRaw)
	if err != nil {
		t.Fatal(err)
	}
	stateDes, err := DeserializeState(stateRaw)
	if err != nil {
		t.Fatal(err)
	}
	chalDes, err := DeserializeChallenge(chalRaw)
	if err != nil {
		t.Fatal(err)
	}
	proofDes, err := DeserializeProof(proofRaw)
	if err != nil {
		t.Fatal(err)
	}
	engDes, err := DeserializeEngine(engRaw)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DeserializePublicEngine(pubRaw); err != nil {
		t.Fatal(err)
	}

	if !engDes.Verify(proofDes, chalDes, stateDes) {
		t.Fatal("artifacts did not survive their wire forms")
	}

	proofAgain, err := engDes.Prove(bytes.NewReader(data), chalDes, tagDes)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := proofAgain.Serialize()
	b, _ := proof.Serialize()
	if !bytes.Equal(a, b) {
		t.Fatal("reproved proof differs")
	}
}

func TestPeekChunkCount(t *testing.T) {
	e, err := NewEngineParams(16, 10)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]byte, 100) // five chunks of 20 bytes
	_, state, err := e.Encode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	raw, err := state.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	n, err := PeekChunkCount(raw)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("peeked %d chunks, want 5", n)
	}
}

func TestKeySize(t *testing.T) {
	if KeySize() != 32 {
		t.Fatalf("key size %d, want 32", KeySize())
	}
}
