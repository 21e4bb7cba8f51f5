// ABOUTME: Per-run read-through caches for board, list, and card metadata
// ABOUTME: Owned by the syncer for one run and discarded at run end
package sync

import (
	"context"
	"log"

	"github.com/harperreed/leadsync/models"
	"github.com/harperreed/leadsync/trello"
)

// fallbackListName labels rows whose list could not be resolved, matching
// the convention downstream consumers already rely on.
const fallbackListName = "Sem Lista"

type metadataCache struct {
	client       *trello.Client
	boards       map[string]models.Board
	lists        map[string]models.List
	loadedBoards map[string]bool
}

func newMetadataCache(client *trello.Client) *metadataCache {
	return &metadataCache{
		client:       client,
		boards:       make(map[string]models.Board),
		lists:        make(map[string]models.List),
		loadedBoards: make(map[string]bool),
	}
}

// boardInfo fetches and caches minimal board info. A fetch failure degrades
// to an open board with a warning, so one flaky call cannot drop a board.
func (c *metadataCache) boardInfo(ctx context.Context, boardID string) models.Board {
	if board, ok := c.boards[boardID]; ok {
		return board
	}

	board, err := c.client.GetBoard(ctx, boardID)
	if err != nil {
		log.Printf("Warning: failed to fetch board %s: %v", boardID, err)
		return models.Board{ID: boardID}
	}

	c.boards[boardID] = *board
	return *board
}

// preloadLists loads every list on the board (archived included) into the
// cache in one request.
func (c *metadataCache) preloadLists(ctx context.Context, boardID string) error {
	if c.loadedBoards[boardID] {
		return nil
	}

	lists, err := c.client.GetLists(ctx, boardID)
	if err != nil {
		return err
	}

	for _, list := range lists {
		c.lists[list.ID] = list
	}
	c.loadedBoards[boardID] = true
	log.Printf("Board %s: preloaded %d lists", boardID, len(lists))
	return nil
}

// listInfo returns list metadata from the cache, fetching the single list as
// a fallback when it was missing from the preload (rare: list moved or
// permissions). A failed fallback degrades to an open list with a
// placeholder name rather than dropping the comment's context.
func (c *metadataCache) listInfo(ctx context.Context, listID string) models.List {
	if list, ok := c.lists[listID]; ok {
		return list
	}

	list, err := c.client.GetList(ctx, listID)
	if err != nil {
		log.Printf("Warning: failed to fetch list %s: %v", listID, err)
		fallback := models.List{ID: listID, Name: fallbackListName}
		c.lists[listID] = fallback
		return fallback
	}
	if list.Name == "" {
		list.Name = fallbackListName
	}

	c.lists[listID] = *list
	return *list
}

// indexCards loads the board's cards (archived included) and indexes only
// the ones whose IDs appear in referenced, keeping memory bounded to the
// cards the comments actually mention.
func (c *metadataCache) indexCards(ctx context.Context, boardID string, referenced map[string]bool) (map[string]models.Card, error) {
	cards, err := c.client.GetCards(ctx, boardID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]models.Card, len(referenced))
	for _, card := range cards {
		if card.ID == "" {
			continue
		}
		if len(referenced) > 0 && !referenced[card.ID] {
			continue
		}
		index[card.ID] = card
	}

	log.Printf("Board %s: indexed %d cards (filtered)", boardID, len(index))
	return index, nil
}
