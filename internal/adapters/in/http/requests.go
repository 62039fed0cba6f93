package http

import (
	"io"
	"time"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

type Address struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Line      string  `json:"line"`
	City      string  `json:"city"`
	Pincode   string  `json:"pincode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (a Address) toDomain() (kernel.Address, error) {
	return kernel.NewAddress(a.Name, a.Phone, a.Line, a.City, a.Pincode, kernel.Coordinates{
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	})
}

type NewCompany struct {
	Name         string          `json:"name"`
	City         string          `json:"city"`
	PlatformRate decimal.Decimal `json:"platformRate"`
	AgentRate    decimal.Decimal `json:"agentRate"`
}

type CommissionRates struct {
	PlatformRate decimal.Decimal `json:"platformRate"`
	AgentRate    decimal.Decimal `json:"agentRate"`
}

type NewAgent struct {
	CompanyID           string   `json:"companyId"`
	Name                string   `json:"name"`
	Phone               string   `json:"phone"`
	City                string   `json:"city"`
	ServicePincodes     []string `json:"servicePincodes"`
	MaxConcurrentOrders int      `json:"maxConcurrentOrders"`
}

type Availability struct {
	Available bool `json:"available"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AssignmentResponse struct {
	AgentID string `json:"agentId"`
	Accept  bool   `json:"accept"`
	Reason  string `json:"reason"`
}

type NewParcel struct {
	CustomerID  string          `json:"customerId"`
	CompanyID   string          `json:"companyId"`
	Pickup      Address         `json:"pickup"`
	Delivery    Address         `json:"delivery"`
	WeightKg    decimal.Decimal `json:"weightKg"`
	PackageType string          `json:"packageType"`
	Description string          `json:"description"`
	DistanceKm  decimal.Decimal `json:"distanceKm"`
}

type PaymentResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
}

type AgentRef struct {
	AgentID string `json:"agentId"`
}

type OtpProof struct {
	AgentID string `json:"agentId"`
	Otp     string `json:"otp"`
}

type Reason struct {
	Reason string `json:"reason"`
}

type DisputeResolution struct {
	Refund bool `json:"refund"`
}

type SettlementExtras struct {
	Bonus decimal.Decimal `json:"bonus"`
	Tip   decimal.Decimal `json:"tip"`
}

type NewGroup struct {
	SourceCity    string           `json:"sourceCity"`
	TargetCity    string           `json:"targetCity"`
	Warehouse     Address          `json:"warehouse"`
	TargetMembers int              `json:"targetMembers"`
	MinMembers    int              `json:"minMembers"`
	DiscountRate  *decimal.Decimal `json:"discountRate"`
	Deadline      *time.Time       `json:"deadline"`
}

type GroupMember struct {
	ParcelID string `json:"parcelId"`
}

type PayoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PayoutApproval struct {
	Reference string `json:"reference"`
}

func bind(c echo.Context, into any) error {
	if err := c.Bind(into); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

// pathID binds a simple-style uuid path parameter.
func pathID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func parseID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func pathLeg(c echo.Context) (assignment.Leg, error) {
	switch c.Param("leg") {
	case "pickup":
		return assignment.PickupLeg, nil
	case "delivery":
		return assignment.DeliveryLeg, nil
	}
	return assignment.NoLeg, errs.NewValueIsInvalidError("leg")
}

// deliveryForm reads a delivery submitted as multipart (with an optional "proof" file)
// or as a plain form.
type deliveryForm struct {
	agentID kernel.UUID
	otp     string
	tip     decimal.Decimal
	proof   *commands.Document
}

func readDeliveryForm(c echo.Context, maxProofSize int64) (deliveryForm, error) {
	agentID, err := parseID("agentId", c.FormValue("agentId"))
	if err != nil {
		return deliveryForm{}, err
	}

	form := deliveryForm{agentID: agentID, otp: c.FormValue("otp"), tip: decimal.Zero}
	if raw := c.FormValue("tip"); raw != "" {
		form.tip, err = decimal.NewFromString(raw)
		if err != nil {
			return deliveryForm{}, errs.NewValueIsInvalidErrorWithCause("tip", err)
		}
	}

	header, err := c.FormFile("proof")
	if err != nil {
		// No file part: delivery without a photo.
		return form, nil
	}
	if maxProofSize > 0 && header.Size > maxProofSize {
		return deliveryForm{}, errs.NewValueIsOutOfRangeError("proof size", header.Size, 1, maxProofSize)
	}

	f, err := header.Open()
	if err != nil {
		return deliveryForm{}, errs.NewValueIsInvalidErrorWithCause("proof", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return deliveryForm{}, errs.NewValueIsInvalidErrorWithCause("proof", err)
	}
	form.proof = &commands.Document{
		Name:        header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Content:     content,
	}
	return form, nil
}
