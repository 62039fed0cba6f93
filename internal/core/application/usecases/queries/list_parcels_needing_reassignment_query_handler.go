package queries

import (
	"context"
	"fmt"

	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReassignmentKind tells a flagged parcel from a flagged group.
type ReassignmentKind string

const (
	ReassignmentParcel ReassignmentKind = "parcel"
	ReassignmentGroup  ReassignmentKind = "group"
)

// ReassignmentItem is one entry of the queue. Reference is the tracking number of a parcel
// or the code of a group.
type ReassignmentItem struct {
	Kind       ReassignmentKind
	ID         kernel.UUID
	Reference  string
	SourceCity string
	TargetCity string
	Status     string
}

// ListParcelsNeedingReassignmentQueryHandler reads the queue from both tables in one
// statement, ordered by reference.
type ListParcelsNeedingReassignmentQueryHandler struct {
	db *gorm.DB
}

func NewListParcelsNeedingReassignmentQueryHandler(db *gorm.DB) ListParcelsNeedingReassignmentQueryHandler {
	return ListParcelsNeedingReassignmentQueryHandler{db: db}
}

func (h ListParcelsNeedingReassignmentQueryHandler) Handle(
	ctx context.Context,
	query ListParcelsNeedingReassignmentQuery,
) ([]ReassignmentItem, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	companyID := query.CompanyID().Bytes()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT 'parcel' AS kind, id, tracking_number AS reference,
			pickup_city AS source_city, delivery_city AS target_city, status
		FROM parcels
		WHERE company_id = ? AND needs_reassignment
		UNION ALL
		SELECT 'group' AS kind, id, code AS reference, source_city, target_city, status
		FROM parcel_groups
		WHERE company_id = ? AND needs_reassignment
		ORDER BY reference
	`, companyID, companyID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ReassignmentItem, 0)
	for rows.Next() {
		var item ReassignmentItem
		var id uuid.UUID
		var status int

		if err = rows.Scan(&item.Kind, &id, &item.Reference, &item.SourceCity, &item.TargetCity, &status); err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = itemID

		switch item.Kind {
		case ReassignmentParcel:
			item.Status = parcel.Status(status).String()
		case ReassignmentGroup:
			item.Status = group.Status(status).String()
		default:
			return nil, fmt.Errorf("unexpected reassignment kind %q", item.Kind)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
