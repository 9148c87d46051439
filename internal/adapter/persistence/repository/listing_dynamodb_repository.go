package repository

import (
	"context"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultListingsTableName = "listings"
	listingsOwnerIDIndex     = "owner_id-index"
)

type listingItem struct {
	ID            string   `dynamodbav:"id"`
	Title         string   `dynamodbav:"title"`
	Description   string   `dynamodbav:"description,omitempty"`
	PriceAmount   int64    `dynamodbav:"price_amount"`
	PriceCurrency string   `dynamodbav:"price_currency"`
	Location      string   `dynamodbav:"location"`
	ListingType   string   `dynamodbav:"listing_type"`
	Bedrooms      int      `dynamodbav:"bedrooms"`
	Bathrooms     int      `dynamodbav:"bathrooms"`
	MaxGuests     int      `dynamodbav:"max_guests"`
	Amenities     []string `dynamodbav:"amenities,omitempty"`
	ImageURL      string   `dynamodbav:"image_url,omitempty"`
	OwnerID       string   `dynamodbav:"owner_id"`
	IsAvailable   bool     `dynamodbav:"is_available"`
	CreatedAt     string   `dynamodbav:"created_at"`
	UpdatedAt     string   `dynamodbav:"updated_at"`
}

// ListingDynamoRepository persists Listing entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: owner_id-index (PK: owner_id)
type ListingDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IListingRepository = (*ListingDynamoRepository)(nil)

func NewListingDynamoRepository(ddb DynamoAPI) *ListingDynamoRepository {
	return &ListingDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("LISTINGS_TABLE", defaultListingsTableName),
	}
}

func (r *ListingDynamoRepository) Create(ctx context.Context, l entities.Listing) (entities.Listing, error) {
	av, err := attributevalue.MarshalMap(toListingItem(l))
	if err != nil {
		return entities.Listing{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Listing{}, err
	}
	return l, nil
}

func (r *ListingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Listing, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Listing{}, err
	}
	if len(out.Item) == 0 {
		return entities.Listing{}, nil
	}

	var it listingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Listing{}, err
	}
	return fromListingItem(it), nil
}

// Update replaces the stored listing. A listing deleted in the meantime
// yields a zero-value Listing.
func (r *ListingDynamoRepository) Update(ctx context.Context, l entities.Listing) (entities.Listing, error) {
	av, err := attributevalue.MarshalMap(toListingItem(l))
	if err != nil {
		return entities.Listing{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if _, ok := conditionFailed(err); ok {
			return entities.Listing{}, nil
		}
		return entities.Listing{}, err
	}
	return l, nil
}

func (r *ListingDynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return err
}

// ListAvailable scans the whole table for available listings. Ordering and
// text matching happen in the use case.
func (r *ListingDynamoRepository) ListAvailable(ctx context.Context) ([]entities.Listing, error) {
	in := &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#available = :true"),
		ExpressionAttributeNames: map[string]string{
			"#available": "is_available",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
	}

	var items []entities.Listing
	for {
		out, err := r.ddb.Scan(ctx, in)
		if err != nil {
			return nil, err
		}
		page, err := unmarshalListings(out.Items)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *ListingDynamoRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Listing, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(listingsOwnerIDIndex),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: ownerID},
		},
	}

	var items []entities.Listing
	for {
		out, err := r.ddb.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		page, err := unmarshalListings(out.Items)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func unmarshalListings(raw []map[string]types.AttributeValue) ([]entities.Listing, error) {
	items := make([]entities.Listing, 0, len(raw))
	for _, av := range raw {
		var it listingItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			return nil, err
		}
		items = append(items, fromListingItem(it))
	}
	return items, nil
}

func toListingItem(l entities.Listing) listingItem {
	return listingItem{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		PriceAmount:   l.Price.Amount,
		PriceCurrency: l.Price.Currency,
		Location:      l.Location,
		ListingType:   string(l.Type),
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		MaxGuests:     l.MaxGuests,
		Amenities:     l.Amenities,
		ImageURL:      l.ImageURL,
		OwnerID:       l.OwnerID,
		IsAvailable:   l.IsAvailable,
		CreatedAt:     formatTime(l.CreatedAt),
		UpdatedAt:     formatTime(l.UpdatedAt),
	}
}

func fromListingItem(it listingItem) entities.Listing {
	return entities.Listing{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Price:       toMoney(it.PriceAmount, it.PriceCurrency),
		Location:    it.Location,
		Type:        entities.ListingType(it.ListingType),
		Bedrooms:    it.Bedrooms,
		Bathrooms:   it.Bathrooms,
		MaxGuests:   it.MaxGuests,
		Amenities:   it.Amenities,
		ImageURL:    it.ImageURL,
		OwnerID:     it.OwnerID,
		IsAvailable: it.IsAvailable,
		CreatedAt:   parseTime(it.CreatedAt),
		UpdatedAt:   parseTime(it.UpdatedAt),
	}
}
