package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/secondchance-api/internal/domain"
)

// ItemRepo provides typed DynamoDB operations for a listing table. The same
// repo type backs both the secondChanceItems table and the (possibly
// distinct) gifts table the search endpoint targets.
type ItemRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewItemRepo(client *dynamodb.Client, tableName string) *ItemRepo {
	return &ItemRepo{client: client, tableName: tableName}
}

// Scan returns every item in the table, unfiltered and unpaginated from the
// caller's point of view (pages are followed internally).
func (r *ItemRepo) Scan(ctx context.Context) ([]domain.Item, error) {
	items := []domain.Item{}
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		items = append(items, page...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *ItemRepo) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("item_id", itemID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("item not found: %w", domain.ErrNotFound)
	}
	var it domain.Item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Put inserts a new item. The conditional expression makes the losing side
// of a concurrent max+1 id race fail instead of silently overwriting.
func (r *ItemRepo) Put(ctx context.Context, it *domain.Item) error {
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(item_id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("item id %s already assigned: %w", it.ItemID, domain.ErrConflict)
	}
	return err
}

// Update applies the attribute map to an existing item. It reports false
// when the item no longer exists, which the service surfaces as the
// normal-path {"uploaded":"failed"} signal rather than an error.
func (r *ItemRepo) Update(ctx context.Context, itemID string, updates map[string]interface{}) (bool, error) {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return false, err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("item_id", itemID),
		ConditionExpression:       aws.String("attribute_exists(item_id)"),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the item and returns how many records matched (0 or 1).
func (r *ItemRepo) Delete(ctx context.Context, itemID string) (int, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          strKey("item_id", itemID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return 0, err
	}
	if len(out.Attributes) == 0 {
		return 0, nil
	}
	return 1, nil
}

// MaxItemID scans item ids and returns the numeric maximum, 0 when the
// table is empty. Ids are decimal strings; unparsable ids are skipped.
func (r *ItemRepo) MaxItemID(ctx context.Context) (int, error) {
	max := 0
	input := &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     aws.String("#id"),
		ExpressionAttributeNames: map[string]string{"#id": "item_id"},
	}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return 0, err
		}
		for _, item := range out.Items {
			s, ok := item["item_id"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			n, err := strconv.Atoi(s.Value)
			if err != nil {
				continue
			}
			if n > max {
				max = n
			}
		}
		if out.LastEvaluatedKey == nil {
			return max, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Search scans with a conjunctive filter built from the present criteria
// only. Name matching is case-insensitive: contains() runs against the
// lowercased name_lc attribute written alongside every item.
func (r *ItemRepo) Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Item, error) {
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	if c.Name != "" {
		conds = append(conds, "contains(#name_lc, :name)")
		names["#name_lc"] = "name_lc"
		values[":name"] = &types.AttributeValueMemberS{Value: strings.ToLower(c.Name)}
	}
	if c.Category != "" {
		conds = append(conds, "#category = :category")
		names["#category"] = "category"
		values[":category"] = &types.AttributeValueMemberS{Value: c.Category}
	}
	if c.Condition != "" {
		conds = append(conds, "#condition = :condition")
		names["#condition"] = "condition"
		values[":condition"] = &types.AttributeValueMemberS{Value: c.Condition}
	}
	if c.MaxAgeYears != nil {
		conds = append(conds, "#age_years <= :age_years")
		names["#age_years"] = "age_years"
		values[":age_years"] = &types.AttributeValueMemberN{Value: strconv.Itoa(*c.MaxAgeYears)}
	}

	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if len(conds) > 0 {
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	items := []domain.Item{}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		items = append(items, page...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
