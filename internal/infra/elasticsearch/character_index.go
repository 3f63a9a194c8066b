package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"charbit-go/internal/model"
	"charbit-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// CharacterDoc ES 中的角色文档
type CharacterDoc struct {
	ID             int64    `json:"id"`
	CreatorID      string   `json:"creator_id"`
	CreatorName    string   `json:"creator_name"`
	Name           string   `json:"name"`
	Nickname       string   `json:"nickname"`
	About          string   `json:"about"`
	Tags           []string `json:"tags"`
	LikesCount     int64    `json:"likes_count"`
	FavoritesCount int64    `json:"favorites_count"`
	ViewsCount     int64    `json:"views_count"`
	CreatedAt      string   `json:"created_at"`
}

// NewCharacterDoc 由角色构造文档，创作者名取 creator_name，其次 username
func NewCharacterDoc(c *model.Character) *CharacterDoc {
	doc := &CharacterDoc{
		ID:             c.ID,
		CreatorID:      c.CreatorID,
		Name:           c.Name,
		About:          c.About,
		Tags:           []string(c.Tags),
		LikesCount:     c.LikesCount,
		FavoritesCount: c.FavoritesCount,
		ViewsCount:     c.ViewsCount,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
	if c.Nickname != nil {
		doc.Nickname = *c.Nickname
	}
	switch {
	case c.Creator.CreatorName != nil:
		doc.CreatorName = *c.Creator.CreatorName
	case c.Creator.Username != nil:
		doc.CreatorName = *c.Creator.Username
	}
	return doc
}

// CharacterIndex 角色索引的读写
type CharacterIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewCharacterIndex(client *elasticsearch.Client, index string) *CharacterIndex {
	if index == "" {
		index = "characters"
	}
	return &CharacterIndex{client: client, index: index}
}

// Upsert 写入单个角色
func (ix *CharacterIndex) Upsert(ctx context.Context, c *model.Character) error {
	body, err := json.Marshal(NewCharacterDoc(c))
	if err != nil {
		return err
	}

	resp, err := ix.client.Index(
		ix.index,
		bytes.NewReader(body),
		ix.client.Index.WithContext(ctx),
		ix.client.Index.WithDocumentID(strconv.FormatInt(c.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Character synced to ES", zap.Int64("character_id", c.ID))
	return nil
}

// Delete 删除角色文档，文档不存在视为成功
func (ix *CharacterIndex) Delete(ctx context.Context, characterID int64) error {
	resp, err := ix.client.Delete(ix.index, strconv.FormatInt(characterID, 10), ix.client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BulkUpsert 批量写入，返回成功与失败条数
func (ix *CharacterIndex) BulkUpsert(ctx context.Context, characters []model.Character) (success, failed int, err error) {
	if len(characters) == 0 {
		return 0, 0, nil
	}

	var buf bytes.Buffer
	for i := range characters {
		docBody, err := json.Marshal(NewCharacterDoc(&characters[i]))
		if err != nil {
			return 0, len(characters), err
		}
		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":"%d"}}`+"\n", ix.index, characters[i].ID)
		buf.Write(docBody)
		buf.WriteByte('\n')
	}

	resp, err := ix.client.Bulk(&buf, ix.client.Bulk.WithContext(ctx))
	if err != nil {
		return 0, len(characters), err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return 0, len(characters), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, len(characters), err
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}
	logger.Info("Characters bulk synced to ES", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}

// SearchIDs 按关键词搜索公开角色，返回按点赞数排序的角色 ID
func (ix *CharacterIndex) SearchIDs(ctx context.Context, keyword string, limit int) ([]int64, error) {
	body, err := json.Marshal(buildSearchQuery(keyword, limit))
	if err != nil {
		return nil, err
	}

	resp, err := ix.client.Search(
		ix.client.Search.WithContext(ctx),
		ix.client.Search.WithIndex(ix.index),
		ix.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, nil
}

func buildSearchQuery(keyword string, limit int) map[string]interface{} {
	keyword = strings.TrimSpace(keyword)
	lower := strings.ToLower(keyword)

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"wildcard": map[string]interface{}{
							"name.lower": map[string]interface{}{"value": "*" + lower + "*"},
						},
					},
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  keyword,
							"fields": []string{"name^3", "nickname^2", "about"},
							"type":   "phrase_prefix",
						},
					},
					map[string]interface{}{
						"term": map[string]interface{}{"tags": keyword},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"_source": []string{"id"},
		"size":    limit,
		"sort": []interface{}{
			map[string]interface{}{"likes_count": map[string]string{"order": "desc"}},
			map[string]interface{}{"id": map[string]string{"order": "desc"}},
		},
	}
}
