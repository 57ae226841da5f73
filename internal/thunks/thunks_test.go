package thunks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"curio-cli/internal/fetch"
	"curio-cli/internal/reducers"
	"curio-cli/internal/schema"
	"curio-cli/internal/store"
)

type requestLog struct {
	mu    sync.Mutex
	paths []string
	// last decoded body per path
	bodies map[string]map[string]any
}

func (l *requestLog) record(path string, body map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, path)
	if l.bodies == nil {
		l.bodies = map[string]map[string]any{}
	}
	l.bodies[path] = body
}

func (l *requestLog) count(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, p := range l.paths {
		if p == path {
			n++
		}
	}
	return n
}

func (l *requestLog) body(path string) map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bodies[path]
}

func newTestRuntime(t *testing.T, handler func(path string, body map[string]any, w http.ResponseWriter)) (*Runtime, *requestLog) {
	t.Helper()
	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		if req.Body != nil {
			json.NewDecoder(req.Body).Decode(&body)
		}
		log.record(req.URL.Path, body)
		handler(req.URL.Path, body, w)
	}))
	t.Cleanup(srv.Close)

	client, err := fetch.NewRunner(srv.URL, "test-token", nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return NewRuntime(store.New(), client, nil), log
}

func wireTag(id int, name string) string {
	return fmt.Sprintf(`{"tag_id": %d, "tag_name": %q, "tag_description": "", "is_published": true,
		"created_at": "2024-03-01T10:00:00Z", "modified_at": "2024-03-01T10:00:00Z"}`, id, name)
}

func seedTag(rt *Runtime, id int, name string) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rt.Store.Dispatch(reducers.AddTags{Tags: []schema.Tag{{
		TagID: id, TagName: name, IsPublished: true, CreatedAt: now, ModifiedAt: now,
	}}})
}

func TestSaveCurrentTag_AddCommitsAndRedirects(t *testing.T) {
	rt, log := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		if path != "/tags/add" {
			t.Errorf("unexpected request to %s", path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"tag": %s}`, wireTag(7, "reading"))
	})

	if err := rt.OpenTagsEditPage(context.Background(), 0); err != nil {
		t.Fatalf("OpenTagsEditPage: %v", err)
	}
	rt.Store.Dispatch(reducers.PatchCurrentTag{TagName: ptr("reading")})

	if err := rt.SaveCurrentTag(context.Background()); err != nil {
		t.Fatalf("SaveCurrentTag: %v", err)
	}

	s := rt.Store.State()
	if _, ok := s.Tags[7]; !ok {
		t.Fatalf("saved tag not in store")
	}
	if s.TagsEditUI.CurrentTag.TagID != 7 || s.TagsEditUI.CurrentTag.TagName != "reading" {
		t.Fatalf("draft not re-seeded from saved tag: %+v", s.TagsEditUI.CurrentTag)
	}
	if s.TagsEditUI.SaveFetch.IsFetching || s.TagsEditUI.SaveFetch.FetchError != "" {
		t.Fatalf("save fetch not cleared: %+v", s.TagsEditUI.SaveFetch)
	}
	if s.RedirectTarget != "/tags/edit/7" {
		t.Fatalf("unexpected redirect target %q", s.RedirectTarget)
	}
	if log.count("/tags/add") != 1 {
		t.Fatalf("expected exactly one add request")
	}
}

func TestSaveCurrentTag_DuplicateNameNeverHitsNetwork(t *testing.T) {
	rt, log := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		t.Errorf("unexpected request to %s", path)
		w.WriteHeader(http.StatusInternalServerError)
	})
	seedTag(rt, 1, "reading")

	rt.Store.Dispatch(reducers.LoadTagsEditPage{TagID: 0})
	rt.Store.Dispatch(reducers.PatchCurrentTag{TagName: ptr("  READING ")})
	if err := rt.SaveCurrentTag(context.Background()); err != nil {
		t.Fatalf("SaveCurrentTag: %v", err)
	}

	s := rt.Store.State()
	if s.TagsEditUI.SaveFetch.FetchError == "" {
		t.Fatalf("expected a recorded precondition failure")
	}
	if s.TagsEditUI.SaveFetch.IsFetching {
		t.Fatalf("fetch flag stuck")
	}
	if len(log.paths) != 0 {
		t.Fatalf("expected no network traffic; saw %v", log.paths)
	}
}

func TestSaveCurrentTag_InFlightSaveBlocksSecondCall(t *testing.T) {
	rt, log := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		t.Errorf("unexpected request to %s", path)
	})
	rt.Store.Dispatch(reducers.LoadTagsEditPage{TagID: 0})
	rt.Store.Dispatch(reducers.PatchCurrentTag{TagName: ptr("reading")})
	rt.Store.Dispatch(reducers.SetTagsEditSaveFetch{IsFetching: true})

	if err := rt.SaveCurrentTag(context.Background()); err != nil {
		t.Fatalf("SaveCurrentTag: %v", err)
	}
	if len(log.paths) != 0 {
		t.Fatalf("guarded save still issued requests: %v", log.paths)
	}
	if !rt.Store.State().TagsEditUI.SaveFetch.IsFetching {
		t.Fatalf("guard must not clear the in-flight flag")
	}
}

func TestLoadTagsPage_FetchesOnlyMissingTags(t *testing.T) {
	rt, log := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		switch path {
		case "/tags/get_page_tag_ids":
			fmt.Fprint(w, `{"total_items": 2, "tag_ids": [1, 2]}`)
		case "/tags/view":
			fmt.Fprintf(w, `{"tags": [%s]}`, wireTag(2, "later"))
		default:
			t.Errorf("unexpected request to %s", path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	seedTag(rt, 1, "reading")

	if err := rt.LoadTagsPage(context.Background()); err != nil {
		t.Fatalf("LoadTagsPage: %v", err)
	}

	s := rt.Store.State()
	info := s.TagsListUI.PaginationInfo
	if info.TotalItems != 2 || len(info.CurrentPageTagIDs) != 2 {
		t.Fatalf("page not committed: %+v", info)
	}
	if _, ok := s.Tags[2]; !ok {
		t.Fatalf("missing tag not fetched")
	}
	if s.TagsListUI.Fetch.IsFetching || s.TagsListUI.Fetch.FetchError != "" {
		t.Fatalf("fetch status not cleared: %+v", s.TagsListUI.Fetch)
	}
	if log.count("/tags/view") != 1 {
		t.Fatalf("expected one view call, got %d", log.count("/tags/view"))
	}
	viewBody := log.body("/tags/view")
	ids, _ := viewBody["tag_ids"].([]any)
	if len(ids) != 1 || ids[0].(float64) != 2 {
		t.Fatalf("view must request only the missing id; got %v", viewBody["tag_ids"])
	}
}

func TestLoadTagsPage_FailureRecordsErrorAndStopsSpinner(t *testing.T) {
	rt, _ := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "backend down")
	})

	if err := rt.LoadTagsPage(context.Background()); err != nil {
		t.Fatalf("LoadTagsPage: %v", err)
	}
	f := rt.Store.State().TagsListUI.Fetch
	if f.IsFetching {
		t.Fatalf("spinner stuck after failure")
	}
	if f.FetchError != "backend down" {
		t.Fatalf("unexpected fetch error %q", f.FetchError)
	}
}

func TestDeleteCurrentTag_404StillDeletesLocally(t *testing.T) {
	rt, _ := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		if path != "/tags/delete" {
			t.Errorf("unexpected request to %s", path)
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"_error": "tag not found"}`)
	})
	seedTag(rt, 3, "stale")
	rt.Store.Dispatch(reducers.LoadTagsEditPage{TagID: 3})

	if err := rt.DeleteCurrentTag(context.Background()); err != nil {
		t.Fatalf("DeleteCurrentTag: %v", err)
	}

	s := rt.Store.State()
	if _, ok := s.Tags[3]; ok {
		t.Fatalf("tag must be scrubbed locally even on 404")
	}
	if s.TagsEditUI.SaveFetch.FetchError != "" {
		t.Fatalf("404 delete must not surface as an error: %q", s.TagsEditUI.SaveFetch.FetchError)
	}
	if s.RedirectTarget != "/tags/list" {
		t.Fatalf("unexpected redirect target %q", s.RedirectTarget)
	}
}

func wireObject(id int, objectType, name string) string {
	return fmt.Sprintf(`{"object_id": %d, "object_type": %q, "object_name": %q,
		"object_description": "", "created_at": "2024-03-01T10:00:00Z",
		"modified_at": "2024-03-01T10:00:00Z", "feed_timestamp": null,
		"is_published": false, "display_in_feed": false, "owner_id": 1,
		"tag_updates": {"added_tag_ids": [], "removed_tag_ids": []}}`, id, objectType, name)
}

func TestSaveCurrentObject_CompositeSavesNewSubobjectsFirst(t *testing.T) {
	var mu sync.Mutex
	nextID := 100
	var addBodies []map[string]any
	rt, _ := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		if path != "/objects/add" {
			t.Errorf("unexpected request to %s", path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		mu.Lock()
		nextID++
		id := nextID
		addBodies = append(addBodies, body)
		mu.Unlock()
		obj := body["object"].(map[string]any)
		fmt.Fprintf(w, `{"object": %s}`, wireObject(id, obj["object_type"].(string), obj["object_name"].(string)))
	})

	// Composite draft -1 referencing a new link subobject draft -2.
	rt.Store.Dispatch(reducers.LoadObjectsEditPage{ObjectID: -1})
	rt.Store.Dispatch(reducers.LoadEditedObject{ObjectID: -1, ObjectType: schema.ObjectTypeComposite})
	rt.Store.Dispatch(reducers.LoadEditedObject{ObjectID: -2, ObjectType: schema.ObjectTypeLink})
	rt.Store.Dispatch(reducers.PatchEditedObject{ObjectID: -1, Patch: reducers.EditedObjectPatch{
		ObjectName: ptr("collection"),
		Composite: ptr(schema.Composite{
			DisplayMode: schema.CompositeDisplayBasic,
			Subobjects:  []schema.CompositeSubobject{{ObjectID: -2}},
		}),
	}})
	rt.Store.Dispatch(reducers.PatchEditedObject{ObjectID: -2, Patch: reducers.EditedObjectPatch{
		ObjectName: ptr("example"),
		Link:       ptr(schema.Link{Link: "https://example.com"}),
	}})

	if err := rt.SaveCurrentObject(context.Background()); err != nil {
		t.Fatalf("SaveCurrentObject: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(addBodies) != 2 {
		t.Fatalf("expected subobject then parent, got %d add calls", len(addBodies))
	}
	first := addBodies[0]["object"].(map[string]any)
	if first["object_type"] != "link" {
		t.Fatalf("subobject must be saved first; got %v", first["object_type"])
	}
	second := addBodies[1]["object"].(map[string]any)
	subs := second["object_data"].(map[string]any)["subobjects"].([]any)
	if len(subs) != 1 || subs[0].(map[string]any)["object_id"].(float64) != 101 {
		t.Fatalf("parent must reference the real subobject id; got %v", subs)
	}

	s := rt.Store.State()
	if _, ok := s.Objects[101]; !ok {
		t.Fatalf("subobject not committed to store")
	}
	if _, ok := s.Objects[102]; !ok {
		t.Fatalf("parent not committed to store")
	}
	if c, ok := s.Composite[102]; !ok || len(c.Subobjects) != 1 || c.Subobjects[0].ObjectID != 101 {
		t.Fatalf("stored composite payload wrong: %+v", c)
	}
	if _, ok := s.EditedObjects[-1]; ok {
		t.Fatalf("saved draft must be dropped")
	}
	if s.RedirectTarget != "/objects/edit/102" {
		t.Fatalf("unexpected redirect target %q", s.RedirectTarget)
	}
}

func TestSaveCurrentObject_SubobjectFailureAbortsParent(t *testing.T) {
	rt, log := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"_error": "invalid link"}`)
	})

	rt.Store.Dispatch(reducers.LoadObjectsEditPage{ObjectID: -1})
	rt.Store.Dispatch(reducers.LoadEditedObject{ObjectID: -1, ObjectType: schema.ObjectTypeComposite})
	rt.Store.Dispatch(reducers.LoadEditedObject{ObjectID: -2, ObjectType: schema.ObjectTypeLink})
	rt.Store.Dispatch(reducers.PatchEditedObject{ObjectID: -1, Patch: reducers.EditedObjectPatch{
		ObjectName: ptr("collection"),
		Composite: ptr(schema.Composite{
			DisplayMode: schema.CompositeDisplayBasic,
			Subobjects:  []schema.CompositeSubobject{{ObjectID: -2}},
		}),
	}})
	rt.Store.Dispatch(reducers.PatchEditedObject{ObjectID: -2, Patch: reducers.EditedObjectPatch{
		ObjectName: ptr("example"),
		Link:       ptr(schema.Link{Link: "https://example.com"}),
	}})

	if err := rt.SaveCurrentObject(context.Background()); err != nil {
		t.Fatalf("SaveCurrentObject: %v", err)
	}

	if got := log.count("/objects/add"); got != 1 {
		t.Fatalf("parent save must not run after subobject failure; %d add calls", got)
	}
	s := rt.Store.State()
	if s.ObjectsEditUI.SaveFetch.FetchError != "invalid link" {
		t.Fatalf("unexpected fetch error %q", s.ObjectsEditUI.SaveFetch.FetchError)
	}
	if _, ok := s.EditedObjects[-1]; !ok {
		t.Fatalf("failed save must keep the drafts")
	}
	if _, ok := s.EditedObjects[-2]; !ok {
		t.Fatalf("failed save must keep the subobject draft")
	}
}

func TestSearchObjectTags_StaleResponseIsDiscarded(t *testing.T) {
	var rt *Runtime
	rt, _ = newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		switch path {
		case "/tags/get_page_tag_ids":
			// The user keeps typing while the request is in flight.
			rt.Store.Dispatch(reducers.PatchObjectsEditTagInput{Text: ptr("ab")})
			fmt.Fprint(w, `{"total_items": 1, "tag_ids": [1]}`)
		case "/tags/view":
			fmt.Fprintf(w, `{"tags": [%s]}`, wireTag(1, "about"))
		default:
			t.Errorf("unexpected request to %s", path)
		}
	})

	rt.Store.Dispatch(reducers.LoadObjectsEditPage{ObjectID: 0})
	if err := rt.SearchObjectTags(context.Background(), "a"); err != nil {
		t.Fatalf("SearchObjectTags: %v", err)
	}

	input := rt.Store.State().ObjectsEditUI.TagInput
	if len(input.MatchingIDs) != 0 {
		t.Fatalf("stale matches must be discarded; got %v", input.MatchingIDs)
	}
	// The fetched tag is still cached for the fresher query.
	if _, ok := rt.Store.State().Tags[1]; !ok {
		t.Fatalf("viewed tag should stay cached")
	}
}

func TestFetchMissingObjects_NothingMissingSkipsNetwork(t *testing.T) {
	rt, log := newTestRuntime(t, func(path string, body map[string]any, w http.ResponseWriter) {
		t.Errorf("unexpected request to %s", path)
	})
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rt.Store.Dispatch(reducers.AddObjects{Objects: []schema.ObjectAttributes{{
		ObjectID: 5, ObjectType: schema.ObjectTypeMarkdown, ObjectName: "notes",
		CreatedAt: now, ModifiedAt: now, OwnerID: 1,
	}}})
	rt.Store.Dispatch(reducers.AddObjectData{Data: []schema.ObjectData{{
		ObjectID: 5, ObjectType: schema.ObjectTypeMarkdown, Markdown: &schema.Markdown{RawText: "# hi"},
	}}})

	res, err := rt.FetchMissingObjects(context.Background(), []int{5, 5}, true)
	if err != nil {
		t.Fatalf("FetchMissingObjects: %v", err)
	}
	if res.Failed() {
		t.Fatalf("expected synthetic success: %+v", res)
	}
	if len(log.paths) != 0 {
		t.Fatalf("expected no requests; saw %v", log.paths)
	}
}
