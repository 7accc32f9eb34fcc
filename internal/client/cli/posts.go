package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/catclub/catclub/internal/client/models"
)

func (a *App) ListPosts(ctx context.Context) error {
	a.posts.FetchAll(ctx)

	st := a.posts.State()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}
	if len(st.Posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return nil
	}

	posts := make([]models.Post, 0, len(st.Posts))
	for _, p := range st.Posts {
		posts = append(posts, p)
	}
	// Newest first.
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })

	for _, p := range posts {
		fmt.Fprintf(a.out, "%s  %q by %s (%d likes, %d comments)\n",
			p.ID, p.Title, orDash(p.AuthorName), p.Likes, len(p.Comments))
	}
	return nil
}

func (a *App) ShowPost(ctx context.Context, id string) error {
	a.posts.FetchOne(ctx, id)

	st := a.posts.State()
	if st.Err != "" {
		fmt.Fprintln(a.out, "Error:", st.Err)
		return nil
	}
	p, ok := a.posts.Get(id)
	if !ok {
		fmt.Fprintln(a.out, "Post not found:", id)
		return nil
	}

	fmt.Fprintf(a.out, "%s\nby %s at %s\n\n%s\n", p.Title, orDash(p.AuthorName), p.CreatedAt.Format("2006-01-02 15:04"), p.Content)
	for _, c := range p.Comments {
		fmt.Fprintf(a.out, "  [%s] %s: %s\n", c.ID, orDash(c.AuthorName), c.Content)
	}
	return nil
}

func (a *App) AddPost(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	post, err := a.posts.Create(ctx, models.PostCreate{Title: title, Content: content})
	if err != nil {
		fmt.Fprintln(a.out, "Could not publish post:", err)
		return err
	}
	fmt.Fprintf(a.out, "Published (id %s)\n", post.ID)
	return nil
}

func (a *App) DeletePost(ctx context.Context, id string) error {
	if err := a.posts.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Could not delete post:", err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) AddComment(ctx context.Context, postID string) error {
	content, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	if err := a.posts.AddComment(ctx, postID, content); err != nil {
		fmt.Fprintln(a.out, "Could not add comment:", err)
		return err
	}
	fmt.Fprintln(a.out, "Comment added.")
	return nil
}

func (a *App) DeleteComment(ctx context.Context, postID, commentID string) error {
	if err := a.posts.DeleteComment(ctx, postID, commentID); err != nil {
		fmt.Fprintln(a.out, "Could not delete comment:", err)
		return err
	}
	fmt.Fprintln(a.out, "Comment deleted.")
	return nil
}
