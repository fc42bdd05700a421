// Package normalize converts raw GitHub activity payloads into the canonical
// item model. Normalization is pure: it never performs I/O and never fails,
// it either produces a well-formed item or reports that the event is not
// modeled.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"

	"github.com/ghrecap/ghrecap/internal/model"
)

// Synthesized title prefixes. Classification relies on these markers, so
// they must stay in sync with the classify package.
const (
	TitlePrefixReview        = "Review on: "
	TitlePrefixReviewComment = "Review comment on: "
	TitlePrefixComment       = "Comment on: "
	TitlePrefixPush          = "Pushed "
)

// maxBodyCommits caps how many commit subjects a push item body lists.
const maxBodyCommits = 5

var (
	prHTMLURLRe = regexp.MustCompile(`/pull/(\d+)`)
	prAPIURLRe  = regexp.MustCompile(`/pulls/(\d+)`)
)

// Event normalizes one raw activity-feed event into a canonical item.
// Unknown or irrelevant event types yield ok=false, never an error; missing
// optional sub-fields degrade to empty values.
func Event(ev *github.Event) (model.Item, bool) {
	if ev == nil {
		return model.Item{}, false
	}

	payload, err := ev.ParsePayload()
	if err != nil {
		return model.Item{}, false
	}

	base := model.Item{
		ID:                ev.GetID(),
		EventID:           ev.GetID(),
		CreatedAt:         ev.GetCreatedAt().Time,
		UpdatedAt:         ev.GetCreatedAt().Time,
		User:              actorUser(ev),
		Repo:              eventRepo(ev),
		OriginalEventType: ev.GetType(),
	}

	switch p := payload.(type) {
	case *github.IssuesEvent:
		return issuesItem(base, p), true
	case *github.PullRequestEvent:
		return pullRequestItem(base, p), true
	case *github.PullRequestReviewEvent:
		return reviewItem(base, p), true
	case *github.PullRequestReviewCommentEvent:
		return reviewCommentItem(base, p), true
	case *github.IssueCommentEvent:
		return issueCommentItem(base, p), true
	case *github.PushEvent:
		return pushItem(base, p), true
	case *github.CreateEvent:
		base.Title = createTitle(p)
		return refItem(base)
	case *github.DeleteEvent:
		base.Title = deleteTitle(p)
		return refItem(base)
	case *github.ForkEvent:
		base.Title = fmt.Sprintf("Forked repository to %s", p.GetForkee().GetFullName())
		base.URL = p.GetForkee().GetHTMLURL()
		if base.URL == "" && base.Repo != nil {
			base.URL = base.Repo.URL
		}
		return base, true
	case *github.WatchEvent:
		if p.GetAction() == "started" {
			base.Title = "Starred repository"
		} else {
			base.Title = "Unstarred repository"
		}
		if base.Repo != nil {
			base.URL = base.Repo.URL
		}
		return base, true
	case *github.PublicEvent:
		base.Title = "Made repository public"
		if base.Repo != nil {
			base.URL = base.Repo.URL
		}
		return base, true
	case *github.GollumEvent:
		return gollumItem(base, p)
	default:
		return model.Item{}, false
	}
}

// SearchIssue converts a search API result into a canonical item. Search
// results are near-canonical already; they carry no OriginalEventType and
// still need window filtering and deduplication downstream.
func SearchIssue(issue *github.Issue) model.Item {
	if issue == nil {
		return model.Item{}
	}

	it := model.Item{
		ID:        strconv.FormatInt(issue.GetID(), 10),
		URL:       issue.GetHTMLURL(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
		Labels:    toLabels(issue.Labels),
		User: model.User{
			Login:     issue.GetUser().GetLogin(),
			AvatarURL: issue.GetUser().GetAvatarURL(),
			URL:       issue.GetUser().GetHTMLURL(),
		},
	}

	if issue.ClosedAt != nil {
		t := issue.GetClosedAt().Time
		it.ClosedAt = &t
	}
	// The search API marks pull requests with a links stub that carries no
	// merge metadata; merged state is recovered later from the detail API.
	if a := issue.GetAssignee(); a != nil {
		it.Assignee = &model.User{
			Login:     a.GetLogin(),
			AvatarURL: a.GetAvatarURL(),
			URL:       a.GetHTMLURL(),
		}
	}
	if owner, repo := repoFromAPIURL(issue.GetRepositoryURL()); owner != "" {
		full := owner + "/" + repo
		it.Repo = &model.Repository{
			Name: full,
			URL:  "https://github.com/" + full,
		}
	}

	return it
}

func issuesItem(base model.Item, p *github.IssuesEvent) model.Item {
	issue := p.GetIssue()

	// Feed events are reported from the actor's point of view, so the
	// actor stays as the item user rather than the issue's author.
	base.Title = issue.GetTitle()
	base.Body = issue.GetBody()
	base.URL = issue.GetHTMLURL()
	base.State = issue.GetState()
	base.Labels = toLabels(issue.Labels)
	if id := issue.GetID(); id != 0 {
		base.ID = strconv.FormatInt(id, 10)
	}
	if !issue.GetCreatedAt().IsZero() {
		base.CreatedAt = issue.GetCreatedAt().Time
	}
	if !issue.GetUpdatedAt().IsZero() {
		base.UpdatedAt = issue.GetUpdatedAt().Time
	}
	if issue.ClosedAt != nil {
		t := issue.GetClosedAt().Time
		base.ClosedAt = &t
	}

	assignee := issue.GetAssignee()
	if assignee == nil && len(issue.Assignees) > 0 {
		assignee = issue.Assignees[0]
	}
	if assignee != nil {
		base.Assignee = &model.User{
			Login:     assignee.GetLogin(),
			AvatarURL: assignee.GetAvatarURL(),
			URL:       assignee.GetHTMLURL(),
		}
	}

	return base
}

func pullRequestItem(base model.Item, p *github.PullRequestEvent) model.Item {
	pr := p.GetPullRequest()
	action := p.GetAction()
	number := prNumber(p.GetNumber(), pr)

	base.Title = prTitle(pr, number, action)
	base.Body = pr.GetBody()
	if base.Body == "" {
		base.Body = fmt.Sprintf("Pull request %s by %s", action, base.User.Login)
	}
	base.URL = pr.GetHTMLURL()

	return overlayPR(base, pr)
}

func reviewItem(base model.Item, p *github.PullRequestReviewEvent) model.Item {
	pr := p.GetPullRequest()
	number := prNumber(0, pr)

	base.Title = TitlePrefixReview + prTitle(pr, number, "")
	base.Body = p.GetReview().GetBody()
	base.URL = p.GetReview().GetHTMLURL()
	if base.URL == "" {
		base.URL = pr.GetHTMLURL()
	}
	base.ReviewedBy = base.User.Login
	if at := p.GetReview().GetSubmittedAt(); !at.IsZero() {
		t := at.Time
		base.ReviewedAt = &t
	}

	return overlayPR(base, pr)
}

func reviewCommentItem(base model.Item, p *github.PullRequestReviewCommentEvent) model.Item {
	pr := p.GetPullRequest()
	number := prNumber(0, pr)

	base.Title = TitlePrefixReviewComment + prTitle(pr, number, "")
	base.Body = p.GetComment().GetBody()
	base.URL = p.GetComment().GetHTMLURL()
	if base.URL == "" {
		base.URL = pr.GetHTMLURL()
	}

	return overlayPR(base, pr)
}

func issueCommentItem(base model.Item, p *github.IssueCommentEvent) model.Item {
	issue := p.GetIssue()

	base.Title = TitlePrefixComment + issue.GetTitle()
	base.Body = p.GetComment().GetBody()
	base.URL = p.GetComment().GetHTMLURL()
	if base.URL == "" {
		base.URL = issue.GetHTMLURL()
	}
	base.State = issue.GetState()
	base.Labels = toLabels(issue.Labels)
	if !issue.GetCreatedAt().IsZero() {
		base.CreatedAt = issue.GetCreatedAt().Time
	}
	if !issue.GetUpdatedAt().IsZero() {
		base.UpdatedAt = issue.GetUpdatedAt().Time
	}

	return base
}

func pushItem(base model.Item, p *github.PushEvent) model.Item {
	owner := base.User.Login
	if base.Repo != nil {
		if i := strings.IndexByte(base.Repo.Name, '/'); i > 0 {
			owner = base.Repo.Name[:i]
		}
		base.URL = base.Repo.URL
	}
	branch := strings.TrimPrefix(p.GetRef(), "refs/heads/")

	count := len(p.Commits)
	if count == 0 {
		count = p.GetDistinctSize()
	}
	if count == 0 {
		count = p.GetSize()
	}

	if count > 0 {
		base.Title = fmt.Sprintf("Pushed %d commit(s) to %s/%s", count, owner, branch)
	} else {
		// Commits unknown, but a changed before/after pair still proves a
		// push happened.
		base.Title = fmt.Sprintf("Pushed to %s/%s", owner, branch)
	}

	base.Body = pushBody(p.Commits, count)
	return base
}

func pushBody(commits []*github.HeadCommit, total int) string {
	if len(commits) == 0 {
		return ""
	}

	shown := commits
	if len(shown) > maxBodyCommits {
		shown = shown[:maxBodyCommits]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, c := range shown {
		msg := c.GetMessage()
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		lines = append(lines, msg)
	}
	if rest := total - len(shown); rest > 0 {
		lines = append(lines, fmt.Sprintf("...and %d more", rest))
	}

	return strings.Join(lines, "\n")
}

func createTitle(p *github.CreateEvent) string {
	switch p.GetRefType() {
	case "branch":
		return fmt.Sprintf("Created branch %s", p.GetRef())
	case "tag":
		return fmt.Sprintf("Created tag %s", p.GetRef())
	default:
		return "Created repository"
	}
}

func deleteTitle(p *github.DeleteEvent) string {
	if p.GetRefType() == "tag" {
		return fmt.Sprintf("Deleted tag %s", p.GetRef())
	}
	return fmt.Sprintf("Deleted branch %s", p.GetRef())
}

func refItem(base model.Item) (model.Item, bool) {
	if base.Repo != nil {
		base.URL = base.Repo.URL
	}
	return base, true
}

func gollumItem(base model.Item, p *github.GollumEvent) (model.Item, bool) {
	if len(p.Pages) == 0 {
		return model.Item{}, false
	}

	first := p.Pages[0]
	if len(p.Pages) > 1 {
		base.Title = fmt.Sprintf("Updated %d wiki pages", len(p.Pages))
	} else if first.GetAction() == "created" {
		base.Title = fmt.Sprintf("Created wiki page %s", first.GetTitle())
	} else {
		base.Title = fmt.Sprintf("Edited wiki page %s", first.GetTitle())
	}

	base.URL = first.GetHTMLURL()
	if base.URL == "" && base.Repo != nil {
		base.URL = base.Repo.URL
	}
	return base, true
}

// overlayPR copies the pull request entity fields shared by all PR-shaped
// events onto the item.
func overlayPR(base model.Item, pr *github.PullRequest) model.Item {
	if pr == nil {
		return base
	}

	if id := pr.GetID(); id != 0 {
		base.ID = strconv.FormatInt(id, 10)
	}
	base.State = pr.GetState()
	base.Merged = pr.GetMerged()
	base.Labels = toLabels(pr.Labels)
	if !pr.GetCreatedAt().IsZero() {
		base.CreatedAt = pr.GetCreatedAt().Time
	}
	if !pr.GetUpdatedAt().IsZero() {
		base.UpdatedAt = pr.GetUpdatedAt().Time
	}
	if pr.ClosedAt != nil {
		t := pr.GetClosedAt().Time
		base.ClosedAt = &t
	}
	if pr.MergedAt != nil {
		t := pr.GetMergedAt().Time
		base.MergedAt = &t
		base.Merged = true
	}
	if a := pr.GetAssignee(); a != nil {
		base.Assignee = &model.User{
			Login:     a.GetLogin(),
			AvatarURL: a.GetAvatarURL(),
			URL:       a.GetHTMLURL(),
		}
	}

	return base
}

// prNumber recovers a pull request number from the first non-empty source:
// the event's own number, the PR entity, the HTML URL, then the API URL.
func prNumber(eventNumber int, pr *github.PullRequest) int {
	if eventNumber != 0 {
		return eventNumber
	}
	if n := pr.GetNumber(); n != 0 {
		return n
	}
	if m := prHTMLURLRe.FindStringSubmatch(pr.GetHTMLURL()); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := prAPIURLRe.FindStringSubmatch(pr.GetURL()); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

// prTitle returns the PR's own title, or a placeholder when the payload
// omitted it. The literal "undefined" is a known upstream-payload defect
// and is treated as missing.
func prTitle(pr *github.PullRequest, number int, action string) string {
	if t := pr.GetTitle(); t != "" && t != "undefined" {
		return t
	}
	if action != "" {
		return fmt.Sprintf("Pull Request #%d %s", number, action)
	}
	return fmt.Sprintf("Pull Request #%d", number)
}

func actorUser(ev *github.Event) model.User {
	actor := ev.GetActor()
	login := actor.GetLogin()
	u := model.User{
		Login:     login,
		AvatarURL: actor.GetAvatarURL(),
	}
	if login != "" {
		u.URL = "https://github.com/" + login
	}
	return u
}

func eventRepo(ev *github.Event) *model.Repository {
	name := ev.GetRepo().GetName()
	if name == "" {
		return nil
	}
	return &model.Repository{
		Name: name,
		URL:  "https://github.com/" + name,
	}
}

func toLabels(labels []*github.Label) []model.Label {
	out := make([]model.Label, 0, len(labels))
	for _, l := range labels {
		out = append(out, model.Label{
			Name:        l.GetName(),
			Color:       l.GetColor(),
			Description: l.GetDescription(),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// repoFromAPIURL extracts owner and repo name from an API repository URL,
// e.g. https://api.github.com/repos/owner/repo.
func repoFromAPIURL(apiURL string) (owner, repo string) {
	const marker = "/repos/"
	i := strings.Index(apiURL, marker)
	if i < 0 {
		return "", ""
	}
	parts := strings.SplitN(apiURL[i+len(marker):], "/", 3)
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
