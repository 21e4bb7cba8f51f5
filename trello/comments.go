// ABOUTME: Paginated fetching of commentCard actions for a board
// ABOUTME: Walks the actions feed with a before-cursor until an empty page
package trello

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"github.com/harperreed/leadsync/models"
)

// commentAction is the wire shape of a commentCard action.
type commentAction struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Data struct {
		Text string `json:"text"`
		Card struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			ShortLink string `json:"shortLink"`
		} `json:"card"`
	} `json:"data"`
	MemberCreator struct {
		FullName string `json:"fullName"`
	} `json:"memberCreator"`
}

// FetchAllComments collects every comment action on a board, paging backwards
// with the last-seen action ID as cursor. On a mid-pagination failure it
// returns the comments collected so far along with the error, so callers can
// process the partial result and log the failure.
func (c *Client) FetchAllComments(ctx context.Context, boardID string) ([]models.Comment, error) {
	var all []models.Comment
	before := ""

	for {
		query := url.Values{
			"filter": {"commentCard"},
			"limit":  {strconv.Itoa(commentPageSize)},
		}
		if before != "" {
			query.Set("before", before)
		}

		var page []commentAction
		if err := c.get(ctx, "/boards/"+boardID+"/actions", query, &page); err != nil {
			return all, err
		}
		if len(page) == 0 {
			break
		}

		for _, action := range page {
			all = append(all, models.Comment{
				ID:            action.ID,
				Date:          action.Date,
				Text:          action.Data.Text,
				AuthorName:    action.MemberCreator.FullName,
				CardID:        action.Data.Card.ID,
				CardName:      action.Data.Card.Name,
				CardShortLink: action.Data.Card.ShortLink,
			})
		}
		before = page[len(page)-1].ID
	}

	log.Printf("Board %s: fetched %d comments", boardID, len(all))
	return all, nil
}
