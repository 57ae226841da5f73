package cli

import (
	"strconv"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"

	"github.com/spf13/cobra"
)

func newObjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objects",
		Short: "Object commands (links, notes, to-do lists, collections)",
	}
	cmd.AddCommand(newObjectsListCmd(app))
	cmd.AddCommand(newObjectsGetCmd(app))
	cmd.AddCommand(newObjectsAddCmd(app))
	cmd.AddCommand(newObjectsUpdateCmd(app))
	cmd.AddCommand(newObjectsDeleteCmd(app))
	return cmd
}

func newObjectsListCmd(app *App) *cobra.Command {
	var page, perPage int
	var orderBy, sortOrder, filter string
	var types []string
	var tagFilter []int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			info := state.ObjectsPaginationInfo{
				Page:         page,
				ItemsPerPage: perPage,
				OrderBy:      state.ObjectsOrderBy(orderBy),
				SortOrder:    state.SortOrder(sortOrder),
				FilterText:   filter,
				TagsFilter:   tagFilter,
			}
			for _, t := range types {
				info.ObjectTypes = append(info.ObjectTypes, schema.ObjectType(t))
			}

			res, total, ids, err := sess.rt.GetPageObjectIDs(ctx, info)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			if mres, err := sess.rt.FetchMissingObjects(ctx, ids, false); err != nil {
				return writeErr(cmd, err)
			} else if err := resultErr(mres); err != nil {
				return writeErr(cmd, err)
			}
			sess.persist(ctx)

			s := sess.rt.Store.State()
			objects := make([]map[string]any, 0, len(ids))
			for _, id := range ids {
				o, ok := s.Objects[id]
				if !ok {
					continue
				}
				objects = append(objects, objectSummary(s, o))
			}
			return writeOut(cmd, app, map[string]any{
				"data": objects,
				"meta": map[string]any{"totalItems": total, "page": page},
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 100, "Items per page")
	cmd.Flags().StringVar(&orderBy, "order-by", "modified_at", "Order by (object_name|modified_at|feed_timestamp)")
	cmd.Flags().StringVar(&sortOrder, "sort", "desc", "Sort order (asc|desc)")
	cmd.Flags().StringVar(&filter, "filter", "", "Name filter text")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Object types to include (link|markdown|to_do_list|composite)")
	cmd.Flags().IntSliceVar(&tagFilter, "tag", nil, "Only objects carrying all of these tag ids")
	return cmd
}

func newObjectsGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <object-id>",
		Short: "Show one object with its payload and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, errBadID("object", args[0]))
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.rt.FetchMissingObjects(ctx, []int{id}, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			s := sess.rt.Store.State()
			o, ok := s.Objects[id]
			if !ok {
				return writeErr(cmd, errNotFound("object", args[0]))
			}
			if _, err := sess.rt.FetchMissingTags(ctx, s.ObjectsTags[id]); err != nil {
				return writeErr(cmd, err)
			}
			sess.persist(ctx)

			s = sess.rt.Store.State()
			out := objectSummary(s, o)
			out["objectData"] = objectPayload(s, id, o.ObjectType)
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newObjectsAddCmd(app *App) *cobra.Command {
	var typ, name, description, url, text string
	var published, displayInFeed, showDescriptionAsLink bool
	var tags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			draft := state.NewEditedObject(0, schema.ObjectType(typ))
			draft.ObjectName = name
			draft.ObjectDescription = description
			draft.IsPublished = published
			draft.DisplayInFeed = displayInFeed
			switch schema.ObjectType(typ) {
			case schema.ObjectTypeLink:
				draft.Link = schema.Link{Link: url, ShowDescriptionAsLink: showDescriptionAsLink}
			case schema.ObjectTypeMarkdown:
				draft.Markdown = schema.Markdown{RawText: text}
			}
			for _, t := range tags {
				draft.AddedTags = append(draft.AddedTags, parseTagRef(t))
			}

			res, saved, err := sess.rt.AddObject(ctx, draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := sess.rt.FetchMissingTags(ctx, saved.AddedTagIDs); err != nil {
				return writeErr(cmd, err)
			}
			sess.persist(ctx)

			s := sess.rt.Store.State()
			return writeOut(cmd, app, map[string]any{"data": objectSummary(s, saved.Attributes)})
		},
	}

	cmd.Flags().StringVar(&typ, "type", "link", "Object type (link|markdown|to_do_list|composite)")
	cmd.Flags().StringVar(&name, "name", "", "Object name")
	cmd.Flags().StringVar(&description, "description", "", "Object description")
	cmd.Flags().StringVar(&url, "url", "", "Link URL (type link)")
	cmd.Flags().StringVar(&text, "text", "", "Markdown source (type markdown)")
	cmd.Flags().BoolVar(&published, "published", false, "Published on the public side")
	cmd.Flags().BoolVar(&displayInFeed, "feed", false, "Show in the public feed")
	cmd.Flags().BoolVar(&showDescriptionAsLink, "description-as-link", false, "Render the description as the link text")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (id or name; new names are created)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newObjectsUpdateCmd(app *App) *cobra.Command {
	var name, description, url, text string
	var published, displayInFeed bool
	var addTags, removeTags []string

	cmd := &cobra.Command{
		Use:   "update <object-id>",
		Short: "Update an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, errBadID("object", args[0]))
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.rt.FetchMissingObjects(ctx, []int{id}, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			s := sess.rt.Store.State()
			draft, ok := state.EditedObjectFromStored(s, id)
			if !ok {
				return writeErr(cmd, errNotFound("object", args[0]))
			}

			if cmd.Flags().Changed("name") {
				draft.ObjectName = name
			}
			if cmd.Flags().Changed("description") {
				draft.ObjectDescription = description
			}
			if cmd.Flags().Changed("published") {
				draft.IsPublished = published
			}
			if cmd.Flags().Changed("feed") {
				draft.DisplayInFeed = displayInFeed
			}
			if cmd.Flags().Changed("url") && draft.ObjectType == schema.ObjectTypeLink {
				draft.Link.Link = url
			}
			if cmd.Flags().Changed("text") && draft.ObjectType == schema.ObjectTypeMarkdown {
				draft.Markdown.RawText = text
			}
			for _, t := range addTags {
				draft.AddedTags = append(draft.AddedTags, parseTagRef(t))
			}
			for _, t := range removeTags {
				if tagID, err := strconv.Atoi(t); err == nil {
					draft.RemovedTagIDs = append(draft.RemovedTagIDs, tagID)
				}
			}

			ures, saved, err := sess.rt.UpdateObject(ctx, draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(ures); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := sess.rt.FetchMissingTags(ctx, saved.AddedTagIDs); err != nil {
				return writeErr(cmd, err)
			}
			sess.persist(ctx)

			s = sess.rt.Store.State()
			return writeOut(cmd, app, map[string]any{"data": objectSummary(s, saved.Attributes)})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Object name")
	cmd.Flags().StringVar(&description, "description", "", "Object description")
	cmd.Flags().StringVar(&url, "url", "", "Link URL (type link)")
	cmd.Flags().StringVar(&text, "text", "", "Markdown source (type markdown)")
	cmd.Flags().BoolVar(&published, "published", false, "Published on the public side")
	cmd.Flags().BoolVar(&displayInFeed, "feed", false, "Show in the public feed")
	cmd.Flags().StringSliceVar(&addTags, "add-tag", nil, "Tag to attach (id or name)")
	cmd.Flags().StringSliceVar(&removeTags, "remove-tag", nil, "Tag id to detach")
	return cmd
}

func newObjectsDeleteCmd(app *App) *cobra.Command {
	var subobjects bool

	cmd := &cobra.Command{
		Use:   "delete <object-id>...",
		Short: "Delete objects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := strconv.Atoi(a)
				if err != nil {
					return writeErr(cmd, errBadID("object", a))
				}
				ids = append(ids, id)
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := sess.rt.DeleteObjects(ctx, ids, subobjects)
			if res.Failed() && res.Status != 404 {
				return writeErr(cmd, resultErr(res))
			}
			sess.persist(ctx)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deletedObjectIds": ids}})
		},
	}

	cmd.Flags().BoolVar(&subobjects, "subobjects", false, "Also delete subobjects of deleted collections")
	return cmd
}

// parseTagRef treats numeric input as an existing tag id and anything else as
// a tag name (created server-side if new).
func parseTagRef(raw string) state.TagRef {
	if id, err := strconv.Atoi(raw); err == nil && id > 0 {
		return state.ResolvedTag(id)
	}
	return state.UnresolvedTag(raw)
}

func objectSummary(s *state.State, o schema.ObjectAttributes) map[string]any {
	tagNames := make([]string, 0, len(s.ObjectsTags[o.ObjectID]))
	for _, tagID := range s.ObjectsTags[o.ObjectID] {
		if t, ok := s.Tags[tagID]; ok {
			tagNames = append(tagNames, t.TagName)
		}
	}
	return map[string]any{
		"objectId":    o.ObjectID,
		"objectType":  o.ObjectType,
		"objectName":  o.ObjectName,
		"description": o.ObjectDescription,
		"isPublished": o.IsPublished,
		"modifiedAt":  o.ModifiedAt,
		"tagIds":      s.ObjectsTags[o.ObjectID],
		"tagNames":    tagNames,
	}
}

func objectPayload(s *state.State, id int, typ schema.ObjectType) any {
	switch typ {
	case schema.ObjectTypeLink:
		if l, ok := s.Links[id]; ok {
			return l
		}
	case schema.ObjectTypeMarkdown:
		if m, ok := s.Markdown[id]; ok {
			return m
		}
	case schema.ObjectTypeToDoList:
		if l, ok := s.ToDoLists[id]; ok {
			return l
		}
	case schema.ObjectTypeComposite:
		if c, ok := s.Composite[id]; ok {
			return c
		}
	}
	return nil
}
