package storage

import (
	"testing"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

func TestFingerprintOrderInvariance(t *testing.T) {
	a := []cluster.Participant{
		{Name: "Alice One", CIK: "0001"},
		{Name: "Bob Two", CIK: "0002"},
		{Name: "Carol Three", CIK: "0003"},
	}
	b := []cluster.Participant{a[2], a[0], a[1]}

	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("fingerprint must not depend on participant order")
	}
}

func TestFingerprintMembershipSensitivity(t *testing.T) {
	base := []cluster.Participant{
		{Name: "Alice One", CIK: "0001"},
		{Name: "Bob Two", CIK: "0002"},
	}
	withExtra := append([]cluster.Participant{}, base...)
	withExtra = append(withExtra, cluster.Participant{Name: "Carol Three", CIK: "0003"})

	if Fingerprint(base) == Fingerprint(withExtra) {
		t.Fatal("adding a participant must change the fingerprint")
	}
	if Fingerprint(base) == Fingerprint(base[:1]) {
		t.Fatal("removing a participant must change the fingerprint")
	}
}

func TestFingerprintUsesIdentifierOverName(t *testing.T) {
	legal := []cluster.Participant{{Name: "Robert Smith Jr.", CIK: "0001"}}
	nickname := []cluster.Participant{{Name: "Bob Smith", CIK: "0001"}}

	if Fingerprint(legal) != Fingerprint(nickname) {
		t.Fatal("same identifier must fingerprint identically regardless of name variant")
	}
}

func TestFingerprintNameFallback(t *testing.T) {
	punctuated := []cluster.Participant{{Name: "JANE   Q. SAMPLE"}}
	plain := []cluster.Participant{{Name: "jane q sample"}}

	if Fingerprint(punctuated) != Fingerprint(plain) {
		t.Fatal("name fallback must normalize punctuation and case")
	}

	other := []cluster.Participant{{Name: "john q sample"}}
	if Fingerprint(plain) == Fingerprint(other) {
		t.Fatal("different names must fingerprint differently")
	}
}

func TestFingerprintDeduplicatesRepeatTransactions(t *testing.T) {
	once := []cluster.Participant{{Name: "Alice One", CIK: "0001"}}
	twice := []cluster.Participant{
		{Name: "Alice One", CIK: "0001"},
		{Name: "Alice One", CIK: "0001"},
	}

	if Fingerprint(once) != Fingerprint(twice) {
		t.Fatal("repeat transactions by one participant must not change identity")
	}
}

func TestFingerprintLength(t *testing.T) {
	fp := Fingerprint([]cluster.Participant{{Name: "Alice One"}})
	if len(fp) != 32 {
		t.Fatalf("fingerprint should be 32 hex chars, got %d", len(fp))
	}
}
