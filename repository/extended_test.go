package repository_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Altinn/altinn-authorization-tmp-sub012/models"
	"github.com/Altinn/altinn-authorization-tmp-sub012/repository"
)

func TestExtendedSingleRelation(t *testing.T) {
	s, ctx := setupStore(t)
	areas := newRepo[models.Area](t, s)
	packages := newRepo[models.Package](t, s)
	ext, err := repository.NewExtendedRepository[models.Package, models.ExtPackage](s)
	if err != nil {
		t.Fatalf("new extended repository: %v", err)
	}

	area := createArea(t, ctx, areas, "Skatt")
	if _, err := areas.CreateTranslation(ctx, models.Area{Id: area.Id, Name: "Tax"}, "eng"); err != nil {
		t.Fatalf("create translation: %v", err)
	}
	pkg := models.Package{Id: uuid.New(), Name: "Skattegrunnlag", AreaId: area.Id}
	if _, err := packages.Create(ctx, pkg); err != nil {
		t.Fatalf("create package: %v", err)
	}

	got, err := ext.GetExtendedBy(ctx, "Id", pkg.Id, nil)
	if err != nil {
		t.Fatalf("get extended: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].Id != pkg.Id || got[0].Name != pkg.Name {
		t.Errorf("expected base columns of %s, got %+v", pkg.Name, got[0].Package)
	}
	if got[0].Area == nil || got[0].Area.Id != area.Id || got[0].Area.Name != "Skatt" {
		t.Fatalf("expected joined area, got %+v", got[0].Area)
	}

	translated, err := ext.GetExtendedBy(ctx, "Id", pkg.Id, &repository.RequestOptions{Language: "eng"})
	if err != nil {
		t.Fatalf("get extended translated: %v", err)
	}
	if translated[0].Area.Name != "Tax" {
		t.Errorf("expected translated area, got %s", translated[0].Area.Name)
	}
}

func TestGetExtendedByID(t *testing.T) {
	s, ctx := setupStore(t)
	areas := newRepo[models.Area](t, s)
	packages := newRepo[models.Package](t, s)
	ext, err := repository.NewExtendedRepository[models.Package, models.ExtPackage](s)
	if err != nil {
		t.Fatalf("new extended repository: %v", err)
	}

	area := createArea(t, ctx, areas, "Arbeid")
	pkg := models.Package{Id: uuid.New(), Name: "Ansettelse", AreaId: area.Id}
	if _, err := packages.Create(ctx, pkg); err != nil {
		t.Fatalf("create package: %v", err)
	}

	got, err := ext.GetExtendedByID(ctx, pkg.Id, nil)
	if err != nil {
		t.Fatalf("get extended by id: %v", err)
	}
	if got.Area == nil || got.Area.Name != "Arbeid" {
		t.Errorf("expected joined area, got %+v", got.Area)
	}

	if _, err := ext.GetExtendedByID(ctx, uuid.New(), nil); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExtendedInnerJoinDropsOrphans(t *testing.T) {
	s, ctx := setupStore(t)
	packages := newRepo[models.Package](t, s)
	ext, err := repository.NewExtendedRepository[models.Package, models.ExtPackage](s)
	if err != nil {
		t.Fatalf("new extended repository: %v", err)
	}

	if _, err := packages.Create(ctx, models.Package{Id: uuid.New(), Name: "Orphan", AreaId: uuid.New()}); err != nil {
		t.Fatalf("create package: %v", err)
	}
	got, err := ext.GetExtended(ctx, nil, nil)
	if err != nil {
		t.Fatalf("get extended: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected required relation to filter the orphan, got %+v", got)
	}
}

func TestExtendedMultipleRelationsToSameType(t *testing.T) {
	s, ctx := setupStore(t)
	entities := newRepo[models.Entity](t, s)
	roles := newRepo[models.Role](t, s)
	assignments := newRepo[models.Assignment](t, s)
	ext, err := repository.NewExtendedRepository[models.Assignment, models.ExtAssignment](s)
	if err != nil {
		t.Fatalf("new extended repository: %v", err)
	}

	from := models.Entity{Id: uuid.New(), Name: "Kari", TypeId: uuid.New()}
	to := models.Entity{Id: uuid.New(), Name: "Bedrift AS", TypeId: uuid.New(), Address: models.Address{City: "Bergen"}}
	for _, e := range []models.Entity{from, to} {
		if _, err := entities.Create(ctx, e); err != nil {
			t.Fatalf("create entity: %v", err)
		}
	}
	role := models.Role{Id: uuid.New(), Name: "Regnskapsfører", Code: "REGN", ProviderId: uuid.New()}
	if _, err := roles.Create(ctx, role); err != nil {
		t.Fatalf("create role: %v", err)
	}
	a := models.Assignment{Id: uuid.New(), FromId: from.Id, ToId: to.Id, RoleId: role.Id}
	if _, err := assignments.Create(ctx, a); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	res, err := ext.QueryExtended(ctx, nil, nil)
	if err != nil {
		t.Fatalf("query extended: %v", err)
	}
	if len(res.Data) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Data))
	}
	got := res.Data[0]
	if got.From == nil || got.From.Name != "Kari" {
		t.Errorf("expected From Kari, got %+v", got.From)
	}
	if got.To == nil || got.To.Name != "Bedrift AS" || got.To.Address.City != "Bergen" {
		t.Errorf("expected To Bedrift AS in Bergen, got %+v", got.To)
	}
	if got.Role == nil || got.Role.Code != "REGN" {
		t.Errorf("expected role REGN, got %+v", got.Role)
	}
}

func TestExtendedListRelation(t *testing.T) {
	s, ctx := setupStore(t)
	areas := newRepo[models.Area](t, s)
	packages := newRepo[models.Package](t, s)
	ext, err := repository.NewExtendedRepository[models.Area, models.ExtArea](s)
	if err != nil {
		t.Fatalf("new extended repository: %v", err)
	}

	full := createArea(t, ctx, areas, "Full")
	empty := createArea(t, ctx, areas, "Empty")
	for _, name := range []string{"a", "b"} {
		if _, err := packages.Create(ctx, models.Package{Id: uuid.New(), Name: name, AreaId: full.Id}); err != nil {
			t.Fatalf("create package: %v", err)
		}
	}

	got, err := ext.GetExtended(ctx, nil, &repository.RequestOptions{OrderBy: "Name"})
	if err != nil {
		t.Fatalf("get extended: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(got))
	}
	if got[0].Id != empty.Id || got[1].Id != full.Id {
		t.Fatalf("unexpected order %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].Packages == nil || len(got[0].Packages) != 0 {
		t.Errorf("expected an empty package list, got %+v", got[0].Packages)
	}
	if names := packageNames(got[1].Packages); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected packages [a b], got %v", names)
	}
}

func TestExtendedPaging(t *testing.T) {
	s, ctx := setupStore(t)
	areas := newRepo[models.Area](t, s)
	ext, err := repository.NewExtendedRepository[models.Area, models.ExtArea](s)
	if err != nil {
		t.Fatalf("new extended repository: %v", err)
	}
	for _, name := range []string{"a", "b", "c"} {
		createArea(t, ctx, areas, name)
	}

	res, err := ext.QueryExtended(ctx, nil, &repository.RequestOptions{UsePaging: true, PageSize: 2})
	if err != nil {
		t.Fatalf("query extended: %v", err)
	}
	if len(res.Data) != 2 || res.Page.ItemCount != 3 || res.Page.PageCount != 2 {
		t.Errorf("expected 2 of 3 rows on 2 pages, got %d %+v", len(res.Data), res.Page)
	}
}
