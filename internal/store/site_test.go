// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"stackify/internal/models"
)

func TestSiteStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-create@store-test.local")

	created := testSite(t, db, owner.ID, "Cafe")
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if created.Status != models.SiteStatusDraft || created.IsPublic {
		t.Errorf("new site should be a private draft: %+v", created)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected site, got nil")
	}
	if found.Content.Title != "Cafe" || len(found.Content.Blocks) != 1 || found.Content.Blocks[0].ID != "hero" {
		t.Errorf("content = %+v", found.Content)
	}
	if found.ImageCache["coffee cup"] != "https://img.test/cup" {
		t.Errorf("image cache = %v", found.ImageCache)
	}
	if found.Subdomain != nil {
		t.Errorf("subdomain = %v, want nil", *found.Subdomain)
	}

	missing, err := s.FindByID(uuid.New())
	if err != nil || missing != nil {
		t.Errorf("FindByID(unknown) = %v, %v; want nil, nil", missing, err)
	}
}

// TestSiteStoreUpdateCache verifies that the image cache is only written
// when requested.
func TestSiteStoreUpdateCache(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-update@store-test.local")
	site := testSite(t, db, owner.ID, "Cafe")

	site.Title = "Bistro"
	site.Content.Title = "Bistro"
	site.ImageCache = models.ImageCache{"ignored": "https://img.test/ignored"}
	if err := s.Update(site, false); err != nil {
		t.Fatalf("Update(writeCache=false): %v", err)
	}

	found, _ := s.FindByID(site.ID)
	if found.Title != "Bistro" || found.Content.Title != "Bistro" {
		t.Errorf("title not updated: %+v", found)
	}
	if _, ok := found.ImageCache["ignored"]; ok || len(found.ImageCache) != 1 {
		t.Errorf("cache should be untouched, got %v", found.ImageCache)
	}

	site.ImageCache = models.ImageCache{
		"coffee cup": "https://img.test/cup",
		"latte art":  "https://img.test/latte",
	}
	if err := s.Update(site, true); err != nil {
		t.Fatalf("Update(writeCache=true): %v", err)
	}
	found, _ = s.FindByID(site.ID)
	if len(found.ImageCache) != 2 {
		t.Errorf("cache = %v, want two entries", found.ImageCache)
	}
}

func TestSiteStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)

	err := s.Update(&models.Site{ID: uuid.New(), Title: "ghost"}, false)
	if err == nil {
		t.Error("expected error updating a missing site")
	}
}

func TestSiteStoreListByUser(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-list@store-test.local")
	other := testUser(t, db, "site-list-other@store-test.local")

	testSite(t, db, owner.ID, "First")
	second := testSite(t, db, owner.ID, "Second")
	testSite(t, db, other.ID, "Theirs")

	sites, err := s.ListByUser(owner.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("len = %d, want 2", len(sites))
	}
	if sites[0].ID != second.ID {
		t.Errorf("most recently updated site should come first")
	}

	none, err := s.ListByUser(uuid.New())
	if err != nil {
		t.Fatalf("ListByUser (none): %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

// TestSiteStoreReviewWorkflow walks a site from draft through submission
// to approval and into the showcase.
func TestSiteStoreReviewWorkflow(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-review@store-test.local")
	stranger := testUser(t, db, "site-review-stranger@store-test.local")
	site := testSite(t, db, owner.ID, "Cafe")

	if got, err := s.Submit(site.ID, stranger.ID); err != nil || got != nil {
		t.Fatalf("Submit by stranger = %v, %v; want nil, nil", got, err)
	}

	submitted, err := s.Submit(site.ID, owner.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.Status != models.SiteStatusPending {
		t.Errorf("status = %q, want pending", submitted.Status)
	}

	pending, err := s.ListByStatus(models.SiteStatusPending)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if !containsSite(pending, site.ID) {
		t.Error("submitted site missing from pending list")
	}

	sub := "cafe-" + site.ID.String()[:8]
	approved, err := s.Review(site.ID, models.SiteStatusApproved, true, &sub)
	if err != nil {
		t.Fatalf("Review approve: %v", err)
	}
	if !approved.IsShowcased() || approved.Subdomain == nil || *approved.Subdomain != sub {
		t.Errorf("approved site = %+v", approved)
	}

	showcase, err := s.ListShowcase()
	if err != nil {
		t.Fatalf("ListShowcase: %v", err)
	}
	if !containsSite(showcase, site.ID) {
		t.Error("approved site missing from showcase")
	}

	rejected, err := s.Review(site.ID, models.SiteStatusRejected, false, nil)
	if err != nil {
		t.Fatalf("Review reject: %v", err)
	}
	if rejected.IsPublic || rejected.Status != models.SiteStatusRejected {
		t.Errorf("rejected site = %+v", rejected)
	}
	if rejected.Subdomain == nil || *rejected.Subdomain != sub {
		t.Error("reject without subdomain should keep the existing one")
	}

	showcase, _ = s.ListShowcase()
	if containsSite(showcase, site.ID) {
		t.Error("rejected site still in showcase")
	}

	if got, err := s.Review(uuid.New(), models.SiteStatusApproved, true, nil); err != nil || got != nil {
		t.Errorf("Review(unknown) = %v, %v; want nil, nil", got, err)
	}
}

func TestSiteStoreReviewDuplicateSubdomain(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-dupsub@store-test.local")
	a := testSite(t, db, owner.ID, "A")
	b := testSite(t, db, owner.ID, "B")

	sub := "dup-" + a.ID.String()[:8]
	if _, err := s.Review(a.ID, models.SiteStatusApproved, true, &sub); err != nil {
		t.Fatalf("Review a: %v", err)
	}
	_, err := s.Review(b.ID, models.SiteStatusApproved, true, &sub)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("error = %v, want ErrDuplicate", err)
	}
}

func TestSiteStoreClone(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-clone@store-test.local")
	cloner := testUser(t, db, "site-clone-2@store-test.local")
	orig := testSite(t, db, owner.ID, "Cafe")

	sub := "clone-" + orig.ID.String()[:8]
	if _, err := s.Review(orig.ID, models.SiteStatusApproved, true, &sub); err != nil {
		t.Fatalf("Review: %v", err)
	}

	clone, err := s.Clone(orig.ID, cloner.ID)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if clone.ID == orig.ID || clone.UserID != cloner.ID {
		t.Errorf("clone = %+v", clone)
	}
	if clone.Title != "Cafe (Clone)" {
		t.Errorf("title = %q", clone.Title)
	}
	if clone.IsPublic || clone.Status != models.SiteStatusDraft || clone.Subdomain != nil {
		t.Errorf("clone should be a private draft without subdomain: %+v", clone)
	}
	if clone.ImageCache["coffee cup"] != "https://img.test/cup" || len(clone.Content.Blocks) != 1 {
		t.Errorf("clone should copy content and image cache: %+v", clone)
	}

	if got, err := s.Clone(uuid.New(), cloner.ID); err != nil || got != nil {
		t.Errorf("Clone(unknown) = %v, %v; want nil, nil", got, err)
	}
}

func TestSiteStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-delete@store-test.local")
	stranger := testUser(t, db, "site-delete-2@store-test.local")
	site := testSite(t, db, owner.ID, "Cafe")

	ok, err := s.DeleteOwned(site.ID, stranger.ID)
	if err != nil || ok {
		t.Fatalf("DeleteOwned by stranger = %v, %v; want false, nil", ok, err)
	}

	ok, err = s.DeleteOwned(site.ID, owner.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteOwned = %v, %v; want true, nil", ok, err)
	}

	other := testSite(t, db, owner.ID, "Other")
	ok, err = s.Delete(other.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v; want true, nil", ok, err)
	}
	ok, err = s.Delete(other.ID)
	if err != nil || ok {
		t.Errorf("second Delete = %v, %v; want false, nil", ok, err)
	}
}

func TestSiteStoreIncrementViews(t *testing.T) {
	db := testDB(t)
	s := NewSiteStore(db)
	owner := testUser(t, db, "site-views@store-test.local")
	site := testSite(t, db, owner.ID, "Cafe")

	for i := 0; i < 3; i++ {
		if err := s.IncrementViews(site.ID); err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
	}
	found, _ := s.FindByID(site.ID)
	if found.Views != 3 {
		t.Errorf("views = %d, want 3", found.Views)
	}
}

func containsSite(sites []models.Site, id uuid.UUID) bool {
	for _, s := range sites {
		if s.ID == id {
			return true
		}
	}
	return false
}
