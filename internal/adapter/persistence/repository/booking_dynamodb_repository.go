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
	defaultBookingsTableName = "bookings"
	bookingsUserIDIndex      = "user_id-index"
)

type bookingItem struct {
	ID          string `dynamodbav:"id"`
	Reference   string `dynamodbav:"reference"`
	ListingID   string `dynamodbav:"listing_id"`
	UserID      string `dynamodbav:"user_id"`
	UserEmail   string `dynamodbav:"user_email,omitempty"`
	CheckIn     string `dynamodbav:"check_in"`
	CheckOut    string `dynamodbav:"check_out"`
	Guests      int    `dynamodbav:"guests"`
	TotalAmount int64  `dynamodbav:"total_amount"`
	Currency    string `dynamodbav:"currency"`
	Status      string `dynamodbav:"status"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

// BookingDynamoRepository persists Booking entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: user_id-index (PK: user_id)
//
// Status changes are written by PaymentDynamoRepository.Settle inside the
// same transaction that completes the payment.
type BookingDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb DynamoAPI) *BookingDynamoRepository {
	return &BookingDynamoRepository{
		ddb:       ddb,
		tableName: bookingsTableName(),
	}
}

func bookingsTableName() string {
	return getenvDefault("BOOKINGS_TABLE", defaultBookingsTableName)
}

func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, err
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
		return entities.Booking{}, err
	}
	return b, nil
}

func (r *BookingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it), nil
}

func (r *BookingDynamoRepository) ListByUserID(ctx context.Context, userID string) ([]entities.Booking, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(bookingsUserIDIndex),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	}

	items := make([]entities.Booking, 0)
	for {
		out, err := r.ddb.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it bookingItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromBookingItem(it))
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func toBookingItem(b entities.Booking) bookingItem {
	return bookingItem{
		ID:          b.ID,
		Reference:   b.Reference,
		ListingID:   b.ListingID,
		UserID:      b.UserID,
		UserEmail:   b.UserEmail,
		CheckIn:     formatTime(b.CheckIn),
		CheckOut:    formatTime(b.CheckOut),
		Guests:      b.Guests,
		TotalAmount: b.TotalPrice.Amount,
		Currency:    b.TotalPrice.Currency,
		Status:      string(b.Status),
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

func fromBookingItem(it bookingItem) entities.Booking {
	return entities.Booking{
		ID:         it.ID,
		Reference:  it.Reference,
		ListingID:  it.ListingID,
		UserID:     it.UserID,
		UserEmail:  it.UserEmail,
		CheckIn:    parseTime(it.CheckIn),
		CheckOut:   parseTime(it.CheckOut),
		Guests:     it.Guests,
		TotalPrice: toMoney(it.TotalAmount, it.Currency),
		Status:     entities.BookingStatus(it.Status),
		CreatedAt:  parseTime(it.CreatedAt),
		UpdatedAt:  parseTime(it.UpdatedAt),
	}
}
