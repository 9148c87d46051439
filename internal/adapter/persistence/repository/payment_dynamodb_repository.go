package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentsTableName = "payments"
	paymentsReferenceIndex   = "reference-index"
	paymentsStatusIndex      = "status-updated_at-index"
)

type paymentItem struct {
	ID                    string `dynamodbav:"id"`
	BookingID             string `dynamodbav:"booking_id"`
	Amount                int64  `dynamodbav:"amount"`
	Currency              string `dynamodbav:"currency"`
	Reference             string `dynamodbav:"reference"`
	ProviderTransactionID string `dynamodbav:"provider_transaction_id,omitempty"`
	CheckoutURL           string `dynamodbav:"checkout_url,omitempty"`
	Status                string `dynamodbav:"status"`
	Method                string `dynamodbav:"method"`
	FailureReason         string `dynamodbav:"failure_reason,omitempty"`
	NotifiedAt            string `dynamodbav:"notified_at,omitempty"`
	CreatedAt             string `dynamodbav:"created_at"`
	UpdatedAt             string `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: booking_id (string), one payment per booking
//   - GSI: reference-index (PK: reference)
//   - GSI: status-updated_at-index (PK: status, SK: updated_at)
//
// A completed payment is never overwritten: every mutating call carries a
// "#status <> completed" condition.
type PaymentDynamoRepository struct {
	ddb           DynamoAPI
	tableName     string
	bookingsTable string
	now           func() time.Time
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb DynamoAPI) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:           ddb,
		tableName:     getenvDefault("PAYMENTS_TABLE", defaultPaymentsTableName),
		bookingsTable: bookingsTableName(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#bid)"),
		ExpressionAttributeNames: map[string]string{
			"#bid": "booking_id",
		},
	})
	if err != nil {
		if _, ok := conditionFailed(err); ok {
			return entities.Payment{}, interfaces.ErrPaymentAlreadyExists
		}
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByBookingID(ctx context.Context, bookingID string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            paymentKey(bookingID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}
	return unmarshalPayment(out.Item)
}

// GetByReference resolves the correlation token through the reference GSI
// and then re-reads the row with a consistent read.
func (r *PaymentDynamoRepository) GetByReference(ctx context.Context, reference string) (entities.Payment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsReferenceIndex),
		KeyConditionExpression: aws.String("#ref = :ref"),
		ExpressionAttributeNames: map[string]string{
			"#ref": "reference",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref": &types.AttributeValueMemberS{Value: reference},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Items) == 0 {
		return entities.Payment{}, nil
	}
	indexed, err := unmarshalPayment(out.Items[0])
	if err != nil {
		return entities.Payment{}, err
	}

	p, err := r.GetByBookingID(ctx, indexed.BookingID)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.Reference != reference {
		return entities.Payment{}, nil
	}
	return p, nil
}

func (r *PaymentDynamoRepository) Update(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#bid) AND #status <> :completed"),
		ExpressionAttributeNames: map[string]string{
			"#bid":    "booking_id",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":completed": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusCompleted)},
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if old, ok := conditionFailed(err); ok {
			if len(old) == 0 {
				return entities.Payment{}, nil
			}
			return entities.Payment{}, interfaces.ErrPaymentAlreadySettled
		}
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) MarkFailed(ctx context.Context, bookingID, reason string) (entities.Payment, error) {
	return r.update(ctx, bookingID, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :failed, #reason = :reason, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":failed":     &types.AttributeValueMemberS{Value: string(entities.PaymentStatusFailed)},
			":reason":     &types.AttributeValueMemberS{Value: reason},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#reason":     "failure_reason",
			"#updated_at": "updated_at",
		}
		return expr, vals, names
	})
}

// Settle completes the payment and confirms its booking in one
// TransactWriteItems call. The payment update is conditioned on the
// reference still matching, so a payment re-initiated after this
// verification started is not completed under the old token.
func (r *PaymentDynamoRepository) Settle(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	now := formatTime(r.now())
	if !p.UpdatedAt.IsZero() {
		now = formatTime(p.UpdatedAt)
	}

	paymentUpdate := &types.Update{
		TableName:           aws.String(r.tableName),
		Key:                 paymentKey(p.BookingID),
		UpdateExpression:    aws.String("SET #status = :completed, #ptid = :ptid, #updated_at = :updated_at REMOVE #reason"),
		ConditionExpression: aws.String("attribute_exists(#bid) AND #status <> :completed AND #ref = :ref"),
		ExpressionAttributeNames: map[string]string{
			"#bid":        "booking_id",
			"#status":     "status",
			"#ptid":       "provider_transaction_id",
			"#updated_at": "updated_at",
			"#reason":     "failure_reason",
			"#ref":        "reference",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":completed":  &types.AttributeValueMemberS{Value: string(entities.PaymentStatusCompleted)},
			":ptid":       &types.AttributeValueMemberS{Value: p.ProviderTransactionID},
			":updated_at": &types.AttributeValueMemberS{Value: now},
			":ref":        &types.AttributeValueMemberS{Value: p.Reference},
		},
	}
	bookingUpdate := &types.Update{
		TableName:           aws.String(r.bookingsTable),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: p.BookingID}},
		UpdateExpression:    aws.String("SET #status = :confirmed, #updated_at = :updated_at"),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":confirmed":  &types.AttributeValueMemberS{Value: string(entities.BookingStatusConfirmed)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		},
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: paymentUpdate},
			{Update: bookingUpdate},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) > 0 {
			if aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
				return entities.Payment{}, interfaces.ErrPaymentAlreadySettled
			}
			if len(tce.CancellationReasons) > 1 && aws.ToString(tce.CancellationReasons[1].Code) == "ConditionalCheckFailed" {
				return entities.Payment{}, fmt.Errorf("settle payment: booking %s does not exist", p.BookingID)
			}
		}
		return entities.Payment{}, err
	}

	p.Status = entities.PaymentStatusCompleted
	p.FailureReason = ""
	p.UpdatedAt = parseTime(now)
	return p, nil
}

func (r *PaymentDynamoRepository) ClaimNotification(ctx context.Context, bookingID string, at time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 paymentKey(bookingID),
		UpdateExpression:    aws.String("SET #notified = :at"),
		ConditionExpression: aws.String("attribute_exists(#bid) AND attribute_not_exists(#notified)"),
		ExpressionAttributeNames: map[string]string{
			"#bid":      "booking_id",
			"#notified": "notified_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":at": &types.AttributeValueMemberS{Value: formatTime(at)},
		},
	})
	if err != nil {
		if _, ok := conditionFailed(err); ok {
			return interfaces.ErrNotificationAlreadyClaimed
		}
		return err
	}
	return nil
}

func (r *PaymentDynamoRepository) ReleaseNotification(ctx context.Context, bookingID string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              paymentKey(bookingID),
		UpdateExpression: aws.String("REMOVE #notified"),
		ExpressionAttributeNames: map[string]string{
			"#notified": "notified_at",
		},
	})
	return err
}

func (r *PaymentDynamoRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]entities.Payment, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsStatusIndex),
		KeyConditionExpression: aws.String("#status = :pending AND #updated_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPending)},
			":cutoff":  &types.AttributeValueMemberS{Value: formatTime(cutoff)},
		},
	}

	items := make([]entities.Payment, 0)
	for {
		out, err := r.ddb.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			p, err := unmarshalPayment(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, p)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *PaymentDynamoRepository) update(
	ctx context.Context,
	bookingID string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Payment, error) {
	now := formatTime(r.now())
	updateExpr, values, names := build(now)
	values[":completed"] = &types.AttributeValueMemberS{Value: string(entities.PaymentStatusCompleted)}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.tableName),
		Key:                                 paymentKey(bookingID),
		ConditionExpression:                 aws.String("attribute_exists(#bid) AND #status <> :completed"),
		UpdateExpression:                    aws.String(updateExpr),
		ExpressionAttributeValues:           values,
		ExpressionAttributeNames:            mergeNames(names, map[string]string{"#bid": "booking_id", "#status": "status"}),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if old, ok := conditionFailed(err); ok {
			if len(old) == 0 {
				return entities.Payment{}, nil
			}
			return entities.Payment{}, interfaces.ErrPaymentAlreadySettled
		}
		return entities.Payment{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Payment{}, nil
	}
	return unmarshalPayment(out.Attributes)
}

func paymentKey(bookingID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"booking_id": &types.AttributeValueMemberS{Value: bookingID},
	}
}

func unmarshalPayment(av map[string]types.AttributeValue) (entities.Payment, error) {
	var it paymentItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	it := paymentItem{
		ID:                    p.ID,
		BookingID:             p.BookingID,
		Amount:                p.Amount.Amount,
		Currency:              p.Amount.Currency,
		Reference:             p.Reference,
		ProviderTransactionID: p.ProviderTransactionID,
		CheckoutURL:           p.CheckoutURL,
		Status:                string(p.Status),
		Method:                p.Method,
		FailureReason:         p.FailureReason,
		CreatedAt:             formatTime(p.CreatedAt),
		UpdatedAt:             formatTime(p.UpdatedAt),
	}
	if p.NotifiedAt != nil {
		it.NotifiedAt = formatTime(*p.NotifiedAt)
	}
	return it
}

func fromPaymentItem(it paymentItem) entities.Payment {
	p := entities.Payment{
		ID:                    it.ID,
		BookingID:             it.BookingID,
		Amount:                toMoney(it.Amount, it.Currency),
		Reference:             it.Reference,
		ProviderTransactionID: it.ProviderTransactionID,
		CheckoutURL:           it.CheckoutURL,
		Status:                entities.PaymentStatus(it.Status),
		Method:                it.Method,
		FailureReason:         it.FailureReason,
		CreatedAt:             parseTime(it.CreatedAt),
		UpdatedAt:             parseTime(it.UpdatedAt),
	}
	if it.NotifiedAt != "" {
		at := parseTime(it.NotifiedAt)
		p.NotifiedAt = &at
	}
	return p
}
