package repository

import (
	"context"
	"testing"
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/domain/money"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func sampleListing(id string) entities.Listing {
	return entities.Listing{
		ID:          id,
		Title:       "Lake House",
		Price:       money.Must(10000, "ETB"),
		Location:    "Bishoftu",
		Type:        entities.ListingTypeVilla,
		MaxGuests:   4,
		Amenities:   []string{"wifi"},
		OwnerID:     "owner-1",
		IsAvailable: true,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestListingDynamoRepository_GetByID(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		ddb := &fakeDynamo{getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		}}
		l, err := NewListingDynamoRepository(ddb).GetByID(context.Background(), "l-1")
		if err != nil || l.ID != "" {
			t.Fatalf("expected zero listing, got %+v err=%v", l, err)
		}
	})

	t.Run("found", func(t *testing.T) {
		av, err := attributevalue.MarshalMap(toListingItem(sampleListing("l-1")))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		ddb := &fakeDynamo{getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: av}, nil
		}}
		l, err := NewListingDynamoRepository(ddb).GetByID(context.Background(), "l-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l.Price.String() != "100.00 ETB" || l.Type != entities.ListingTypeVilla || !l.IsAvailable || len(l.Amenities) != 1 {
			t.Fatalf("unexpected listing %+v", l)
		}
	})
}

func TestListingDynamoRepository_Update_Missing(t *testing.T) {
	ddb := &fakeDynamo{putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
		if aws.ToString(in.ConditionExpression) != "attribute_exists(#id)" {
			t.Fatalf("unexpected condition %q", aws.ToString(in.ConditionExpression))
		}
		return nil, &types.ConditionalCheckFailedException{}
	}}
	l, err := NewListingDynamoRepository(ddb).Update(context.Background(), sampleListing("l-1"))
	if err != nil || l.ID != "" {
		t.Fatalf("expected zero listing, got %+v err=%v", l, err)
	}
}

func TestListingDynamoRepository_ListAvailable_Paginates(t *testing.T) {
	first, _ := attributevalue.MarshalMap(toListingItem(sampleListing("l-1")))
	second, _ := attributevalue.MarshalMap(toListingItem(sampleListing("l-2")))
	calls := 0
	ddb := &fakeDynamo{scan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
		calls++
		if aws.ToString(in.FilterExpression) != "#available = :true" {
			t.Fatalf("unexpected filter %q", aws.ToString(in.FilterExpression))
		}
		if calls == 1 {
			return &dynamodb.ScanOutput{
				Items:            []map[string]types.AttributeValue{first},
				LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "l-1"}},
			}, nil
		}
		return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{second}}, nil
	}}

	items, err := NewListingDynamoRepository(ddb).ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[1].ID != "l-2" {
		t.Fatalf("unexpected items %+v", items)
	}
}
