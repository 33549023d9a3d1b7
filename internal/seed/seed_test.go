package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

const sample = `
regiments:
  - name: Bravo Company
    motto: Stand fast
    roblox_group_id: "12345"
  - name: Alpha Company
    description: First in
admins:
  - A1
  - "  "
  - A2
`

type stubRegiments struct {
	byName map[string]*domain.Regiment
	err    error
}

func (s *stubRegiments) List(context.Context) ([]*domain.Regiment, error) { return nil, nil }

func (s *stubRegiments) Upsert(_ context.Context, r *domain.Regiment) error {
	if s.err != nil {
		return s.err
	}
	if existing, ok := s.byName[r.Name]; ok {
		r.ID = existing.ID
	} else {
		r.ID = int64(len(s.byName) + 1)
	}
	s.byName[r.Name] = r
	return nil
}

type stubRoles struct {
	granted map[string]string
}

func (s *stubRoles) HasRole(_ context.Context, userID, role string) (bool, error) {
	return s.granted[userID] == role, nil
}

func (s *stubRoles) Grant(_ context.Context, userID, role string) error {
	s.granted[userID] = role
	return nil
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Regiments) != 2 || f.Regiments[0].Name != "Bravo Company" || f.Regiments[0].RobloxGroupID != "12345" {
		t.Fatalf("unexpected regiments: %+v", f.Regiments)
	}
	if len(f.Admins) != 3 {
		t.Fatalf("unexpected admins: %+v", f.Admins)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "regiments: [",
		"missing name":   "regiments:\n  - motto: x\n",
		"duplicate name": "regiments:\n  - name: A\n  - name: A\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	regiments := &stubRegiments{byName: map[string]*domain.Regiment{}}
	roles := &stubRoles{granted: map[string]string{}}

	for i := 0; i < 2; i++ {
		res, err := Apply(context.Background(), f, regiments, roles, zerolog.Nop())
		if err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
		if res.Regiments != 2 || res.Admins != 2 {
			t.Fatalf("apply #%d: unexpected result %+v", i+1, res)
		}
	}

	if len(regiments.byName) != 2 {
		t.Fatalf("expected 2 regiments, got %d", len(regiments.byName))
	}
	alpha := regiments.byName["Alpha Company"]
	if alpha.Description == nil || *alpha.Description != "First in" || alpha.Motto != nil {
		t.Fatalf("unexpected alpha: %+v", alpha)
	}
	if roles.granted["A1"] != domain.RoleAdmin || roles.granted["A2"] != domain.RoleAdmin || len(roles.granted) != 2 {
		t.Fatalf("unexpected grants: %+v", roles.granted)
	}
}

func TestApply_StopsOnError(t *testing.T) {
	f, _ := Parse([]byte(sample))
	boom := errors.New("db down")

	_, err := Apply(context.Background(), f, &stubRegiments{err: boom}, &stubRoles{granted: map[string]string{}}, zerolog.Nop())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
