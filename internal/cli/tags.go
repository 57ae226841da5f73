package cli

import (
	"strconv"

	"curio-cli/internal/schema"
	"curio-cli/internal/state"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag commands",
	}
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsGetCmd(app))
	cmd.AddCommand(newTagsAddCmd(app))
	cmd.AddCommand(newTagsUpdateCmd(app))
	cmd.AddCommand(newTagsDeleteCmd(app))
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	var page, perPage int
	var orderBy, sortOrder, filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			info := state.TagsPaginationInfo{
				Page:         page,
				ItemsPerPage: perPage,
				OrderBy:      state.TagsOrderBy(orderBy),
				SortOrder:    state.SortOrder(sortOrder),
				FilterText:   filter,
			}
			res, total, ids, err := sess.rt.GetPageTagIDs(ctx, info)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			if mres, err := sess.rt.FetchMissingTags(ctx, ids); err != nil {
				return writeErr(cmd, err)
			} else if err := resultErr(mres); err != nil {
				return writeErr(cmd, err)
			}
			sess.persist(ctx)

			s := sess.rt.Store.State()
			tags := make([]schema.Tag, 0, len(ids))
			for _, id := range ids {
				if t, ok := s.Tags[id]; ok {
					tags = append(tags, t)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": tags,
				"meta": map[string]any{"totalItems": total, "page": page},
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 100, "Items per page")
	cmd.Flags().StringVar(&orderBy, "order-by", "tag_name", "Order by (tag_name|modified_at)")
	cmd.Flags().StringVar(&sortOrder, "sort", "asc", "Sort order (asc|desc)")
	cmd.Flags().StringVar(&filter, "filter", "", "Name filter text")
	return cmd
}

func newTagsGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <tag-id>",
		Short: "Show one tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, errBadID("tag", args[0]))
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.rt.FetchMissingTags(ctx, []int{id})
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			t, ok := sess.rt.Store.State().Tags[id]
			if !ok {
				return writeErr(cmd, errNotFound("tag", args[0]))
			}
			sess.persist(ctx)
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	return cmd
}

func newTagsAddCmd(app *App) *cobra.Command {
	var name, description string
	var published bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, tag, err := sess.rt.AddTag(ctx, schema.TagAttributes{
				TagName:        name,
				TagDescription: description,
				IsPublished:    published,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			sess.persist(ctx)
			return writeOut(cmd, app, map[string]any{"data": tag})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tag name")
	cmd.Flags().StringVar(&description, "description", "", "Tag description")
	cmd.Flags().BoolVar(&published, "published", true, "Published on the public side")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTagsUpdateCmd(app *App) *cobra.Command {
	var name, description string
	var published bool

	cmd := &cobra.Command{
		Use:   "update <tag-id>",
		Short: "Update a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, errBadID("tag", args[0]))
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Unspecified flags keep the current values.
			res, err := sess.rt.FetchMissingTags(ctx, []int{id})
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(res); err != nil {
				return writeErr(cmd, err)
			}
			current, ok := sess.rt.Store.State().Tags[id]
			if !ok {
				return writeErr(cmd, errNotFound("tag", args[0]))
			}
			attrs := schema.TagAttributes{
				TagName:        current.TagName,
				TagDescription: current.TagDescription,
				IsPublished:    current.IsPublished,
			}
			if cmd.Flags().Changed("name") {
				attrs.TagName = name
			}
			if cmd.Flags().Changed("description") {
				attrs.TagDescription = description
			}
			if cmd.Flags().Changed("published") {
				attrs.IsPublished = published
			}

			ures, tag, err := sess.rt.UpdateTag(ctx, id, attrs)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := resultErr(ures); err != nil {
				return writeErr(cmd, err)
			}
			sess.persist(ctx)
			return writeOut(cmd, app, map[string]any{"data": tag})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tag name")
	cmd.Flags().StringVar(&description, "description", "", "Tag description")
	cmd.Flags().BoolVar(&published, "published", true, "Published on the public side")
	return cmd
}

func newTagsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <tag-id>...",
		Short: "Delete tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := strconv.Atoi(a)
				if err != nil {
					return writeErr(cmd, errBadID("tag", a))
				}
				ids = append(ids, id)
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := sess.rt.DeleteTags(ctx, ids)
			// Already-gone tags count as deleted.
			if res.Failed() && res.Status != 404 {
				return writeErr(cmd, resultErr(res))
			}
			sess.persist(ctx)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deletedTagIds": ids}})
		},
	}
	return cmd
}
