package commands_test

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"tpts/internal/core/application/usecases/commands"
	"tpts/internal/core/domain/model/agent"
	"tpts/internal/core/domain/model/assignment"
	"tpts/internal/core/domain/model/company"
	"tpts/internal/core/domain/model/group"
	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/domain/model/ledger"
	"tpts/internal/core/domain/model/parcel"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"

	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the database. Repositories hand out the stored
// pointers, so it does not isolate transactions; scenarios run one command at a time.
type memStore struct {
	parcels      map[kernel.UUID]*parcel.Parcel
	agents       map[kernel.UUID]*agent.Agent
	companies    map[kernel.UUID]*company.Company
	assignments  []*assignment.Assignment
	groups       map[kernel.UUID]*group.Group
	earnings     map[kernel.UUID]*ledger.Earning
	transactions []*ledger.Transaction
	wallets      map[kernel.UUID]*ledger.Wallet
	payouts      map[kernel.UUID]*ledger.Payout
	settlements  map[kernel.UUID]ledger.GroupSettlement

	// walletWrites records the owner of every wallet insert or update, in order.
	walletWrites []kernel.UUID
	commits      int
}

func newMemStore() *memStore {
	return &memStore{
		parcels:     make(map[kernel.UUID]*parcel.Parcel),
		agents:      make(map[kernel.UUID]*agent.Agent),
		companies:   make(map[kernel.UUID]*company.Company),
		groups:      make(map[kernel.UUID]*group.Group),
		earnings:    make(map[kernel.UUID]*ledger.Earning),
		wallets:     make(map[kernel.UUID]*ledger.Wallet),
		payouts:     make(map[kernel.UUID]*ledger.Payout),
		settlements: make(map[kernel.UUID]ledger.GroupSettlement),
	}
}

type versioned interface {
	Version() int64
	MarkPersisted(version int64)
}

func bump(v versioned) { v.MarkPersisted(v.Version() + 1) }

func getFrom[T any](m map[kernel.UUID]T, id kernel.UUID, name string) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, errs.NewObjectNotFoundError(name, id)
	}
	return v, nil
}

func addTo[T any](m map[kernel.UUID]T, id kernel.UUID, v T) error {
	if _, ok := m[id]; ok {
		return fmt.Errorf("duplicate %s", id)
	}
	m[id] = v
	return nil
}

// memUoW implements commands.UoW over a memStore.
type memUoW struct {
	s *memStore
}

type memUoWFactory struct {
	s *memStore
}

func (f memUoWFactory) Create() commands.UoW { return &memUoW{s: f.s} }

func (u *memUoW) Begin(context.Context) error    { return nil }
func (u *memUoW) Commit(context.Context) error   { u.s.commits++; return nil }
func (u *memUoW) Rollback(context.Context) error { return nil }

func (u *memUoW) ParcelRepository() ports.ParcelRepository         { return memParcels{u.s} }
func (u *memUoW) AgentRepository() ports.AgentRepository           { return memAgents{u.s} }
func (u *memUoW) CompanyRepository() ports.CompanyRepository       { return memCompanies{u.s} }
func (u *memUoW) AssignmentRepository() ports.AssignmentRepository { return memAssignments{u.s} }
func (u *memUoW) GroupRepository() ports.GroupRepository           { return memGroups{u.s} }
func (u *memUoW) LedgerRepository() ports.LedgerRepository         { return memLedger{u.s} }

type memParcels struct{ s *memStore }

func (r memParcels) Add(_ context.Context, p *parcel.Parcel) error { return addTo(r.s.parcels, p.ID(), p) }

func (r memParcels) Update(_ context.Context, p *parcel.Parcel) error {
	if _, err := getFrom(r.s.parcels, p.ID(), "parcel"); err != nil {
		return err
	}
	bump(p)
	return nil
}

func (r memParcels) Get(_ context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	return getFrom(r.s.parcels, id, "parcel")
}

func (r memParcels) ListByGroup(_ context.Context, groupID kernel.UUID) ([]*parcel.Parcel, error) {
	var res []*parcel.Parcel
	for _, p := range r.s.parcels {
		if p.GroupID() != nil && p.GroupID().IsEqual(groupID) {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r memParcels) ListDispatchable(_ context.Context, limit int) ([]*parcel.Parcel, error) {
	var res []*parcel.Parcel
	for _, p := range r.s.parcels {
		if p.IsDispatchable() && !p.NeedsReassignment() && len(res) < limit {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r memParcels) ListNeedingReassignment(_ context.Context, companyID kernel.UUID) ([]*parcel.Parcel, error) {
	var res []*parcel.Parcel
	for _, p := range r.s.parcels {
		if p.NeedsReassignment() && p.CompanyID().IsEqual(companyID) {
			res = append(res, p)
		}
	}
	return res, nil
}

type memAgents struct{ s *memStore }

func (r memAgents) Add(_ context.Context, a *agent.Agent) error { return addTo(r.s.agents, a.ID(), a) }

func (r memAgents) Update(_ context.Context, a *agent.Agent) error {
	if _, err := getFrom(r.s.agents, a.ID(), "agent"); err != nil {
		return err
	}
	bump(a)
	return nil
}

func (r memAgents) Get(_ context.Context, id kernel.UUID) (*agent.Agent, error) {
	return getFrom(r.s.agents, id, "agent")
}

func (r memAgents) FindCandidates(_ context.Context, companyID kernel.UUID, city, pincode string) ([]*agent.Agent, error) {
	var res []*agent.Agent
	for _, a := range r.s.agents {
		if a.CompanyID().IsEqual(companyID) && a.CanTakeOrders() && a.Covers(city, pincode) {
			res = append(res, a)
		}
	}
	return res, nil
}

type memCompanies struct{ s *memStore }

func (r memCompanies) Add(_ context.Context, c *company.Company) error {
	return addTo(r.s.companies, c.ID(), c)
}

func (r memCompanies) Update(_ context.Context, c *company.Company) error {
	if _, err := getFrom(r.s.companies, c.ID(), "company"); err != nil {
		return err
	}
	bump(c)
	return nil
}

func (r memCompanies) Get(_ context.Context, id kernel.UUID) (*company.Company, error) {
	return getFrom(r.s.companies, id, "company")
}

type memAssignments struct{ s *memStore }

func (r memAssignments) Add(_ context.Context, a *assignment.Assignment) error {
	r.s.assignments = append(r.s.assignments, a)
	return nil
}

func (r memAssignments) Update(_ context.Context, a *assignment.Assignment) error {
	if _, err := r.Get(context.Background(), a.ID()); err != nil {
		return err
	}
	bump(a)
	return nil
}

func (r memAssignments) Get(_ context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	for _, a := range r.s.assignments {
		if a.ID().IsEqual(id) {
			return a, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("assignment", id)
}

func (r memAssignments) FindActive(_ context.Context, subject assignment.Subject) (*assignment.Assignment, error) {
	for _, a := range r.s.assignments {
		active := a.Status() == assignment.Pending || a.Status() == assignment.Accepted
		if active && a.Subject().IsEqual(subject) {
			return a, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("active assignment", subject.String())
}

func (r memAssignments) ListBySubject(_ context.Context, subject assignment.Subject) ([]*assignment.Assignment, error) {
	var res []*assignment.Assignment
	for _, a := range r.s.assignments {
		if a.Subject().IsEqual(subject) {
			res = append(res, a)
		}
	}
	return res, nil
}

func (r memAssignments) ListAgentsWithPendingOffers(context.Context) ([]kernel.UUID, error) {
	var res []kernel.UUID
	for _, a := range r.s.assignments {
		if a.Status() == assignment.Pending {
			res = append(res, a.AgentID())
		}
	}
	return res, nil
}

func (r memAssignments) ListOverdue(_ context.Context, now time.Time, limit int) ([]*assignment.Assignment, error) {
	var res []*assignment.Assignment
	for _, a := range r.s.assignments {
		if a.Status() == assignment.Pending && a.IsOverdue(now) && len(res) < limit {
			res = append(res, a)
		}
	}
	return res, nil
}

type memGroups struct{ s *memStore }

func (r memGroups) Add(_ context.Context, g *group.Group) error { return addTo(r.s.groups, g.ID(), g) }

func (r memGroups) Update(_ context.Context, g *group.Group) error {
	if _, err := getFrom(r.s.groups, g.ID(), "group"); err != nil {
		return err
	}
	bump(g)
	return nil
}

func (r memGroups) Get(_ context.Context, id kernel.UUID) (*group.Group, error) {
	return getFrom(r.s.groups, id, "group")
}

func (r memGroups) ListOpenPastDeadline(_ context.Context, now time.Time, limit int) ([]*group.Group, error) {
	var res []*group.Group
	for _, g := range r.s.groups {
		if g.Status() == group.Open && !now.Before(g.Deadline()) && len(res) < limit {
			res = append(res, g)
		}
	}
	return res, nil
}

func (r memGroups) ListAwaitingLeg(_ context.Context, limit int) ([]*group.Group, error) {
	var res []*group.Group
	for _, g := range r.s.groups {
		waiting := (g.ReadyForPickup() && g.PickupAgentID() == nil) ||
			(g.Status() == group.InTransit && g.DeliveryAgentID() == nil)
		if waiting && !g.NeedsReassignment() && len(res) < limit {
			res = append(res, g)
		}
	}
	return res, nil
}

type memLedger struct{ s *memStore }

func (r memLedger) AddEarning(_ context.Context, e *ledger.Earning) error {
	return addTo(r.s.earnings, e.ParcelID(), e)
}

func (r memLedger) UpdateEarning(_ context.Context, e *ledger.Earning) error {
	_, err := getFrom(r.s.earnings, e.ParcelID(), "earning")
	return err
}

func (r memLedger) GetEarningByParcel(_ context.Context, parcelID kernel.UUID) (*ledger.Earning, error) {
	return getFrom(r.s.earnings, parcelID, "earning")
}

func (r memLedger) ListDueEarnings(_ context.Context, now time.Time, limit int) ([]*ledger.Earning, error) {
	var res []*ledger.Earning
	for _, e := range r.s.earnings {
		if e.IsDue(now) && len(res) < limit {
			res = append(res, e)
		}
	}
	return res, nil
}

func (r memLedger) AddTransaction(_ context.Context, tx *ledger.Transaction) error {
	r.s.transactions = append(r.s.transactions, tx)
	return nil
}

func (r memLedger) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	_, err := r.GetTransaction(ctx, tx.ID())
	return err
}

func (r memLedger) GetTransaction(_ context.Context, id kernel.UUID) (*ledger.Transaction, error) {
	for _, tx := range r.s.transactions {
		if tx.ID().IsEqual(id) {
			return tx, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("transaction", id)
}

func (r memLedger) ListTransactionsByParcel(_ context.Context, parcelID kernel.UUID) ([]*ledger.Transaction, error) {
	var res []*ledger.Transaction
	for _, tx := range r.s.transactions {
		if ref := tx.References().ParcelID; ref != nil && ref.IsEqual(parcelID) {
			res = append(res, tx)
		}
	}
	return res, nil
}

func (r memLedger) ListDueTransactions(_ context.Context, now time.Time, limit int) ([]*ledger.Transaction, error) {
	var res []*ledger.Transaction
	for _, tx := range r.s.transactions {
		if tx.IsDue(now) && len(res) < limit {
			res = append(res, tx)
		}
	}
	return res, nil
}

func (r memLedger) GetWallet(_ context.Context, ownerID kernel.UUID) (*ledger.Wallet, error) {
	return getFrom(r.s.wallets, ownerID, "wallet")
}

func (r memLedger) AddWallet(_ context.Context, w *ledger.Wallet) error {
	if err := addTo(r.s.wallets, w.OwnerID(), w); err != nil {
		return err
	}
	r.s.walletWrites = append(r.s.walletWrites, w.OwnerID())
	return nil
}

func (r memLedger) UpdateWallet(_ context.Context, w *ledger.Wallet) error {
	if _, err := getFrom(r.s.wallets, w.OwnerID(), "wallet"); err != nil {
		return err
	}
	bump(w)
	r.s.walletWrites = append(r.s.walletWrites, w.OwnerID())
	return nil
}

func (r memLedger) AddPayout(_ context.Context, p *ledger.Payout) error {
	return addTo(r.s.payouts, p.ID(), p)
}

func (r memLedger) UpdatePayout(_ context.Context, p *ledger.Payout) error {
	_, err := getFrom(r.s.payouts, p.ID(), "payout")
	return err
}

func (r memLedger) GetPayout(_ context.Context, id kernel.UUID) (*ledger.Payout, error) {
	return getFrom(r.s.payouts, id, "payout")
}

func (r memLedger) AddGroupSettlement(_ context.Context, s ledger.GroupSettlement) error {
	return addTo(r.s.settlements, s.GroupID, s)
}

func (r memLedger) HasGroupSettlement(_ context.Context, groupID kernel.UUID) (bool, error) {
	_, ok := r.s.settlements[groupID]
	return ok, nil
}

// fakeClock is a settable clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeTokens struct {
	seq int
}

func (t *fakeTokens) GenerateOtp() (string, error) { return "123456", nil }

func (t *fakeTokens) GenerateTrackingNumber() (string, error) {
	t.seq++
	return fmt.Sprintf("TRK%06d", t.seq), nil
}

func (t *fakeTokens) GenerateGroupCode() (string, error) {
	t.seq++
	return fmt.Sprintf("GRP%04d", t.seq), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) types(userID kernel.UUID) []ports.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	var res []ports.NotificationType
	for _, m := range n.sent {
		if m.UserID.IsEqual(userID) {
			res = append(res, m.Type)
		}
	}
	return res
}

type fakeGateway struct {
	mu       sync.Mutex
	decline  bool
	refunded []ports.RefundRequest
}

func (g *fakeGateway) Refund(_ context.Context, req ports.RefundRequest) (ports.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.decline {
		return ports.PaymentResult{Success: false}, nil
	}
	g.refunded = append(g.refunded, req)
	return ports.PaymentResult{Success: true, Reference: "rf_" + req.ParcelID.String()}, nil
}

type memDocuments struct {
	stored []string
}

func (d *memDocuments) Store(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	d.stored = append(d.stored, name)
	return "mem://" + name, nil
}

// world wires handlers to the in-memory store, as the composition root wires them to
// postgres and kafka.
type world struct {
	store    *memStore
	clock    *fakeClock
	notifier *recordingNotifier
	gateway  *fakeGateway
	docs     *memDocuments
	rt       commands.Runtime
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{
		store:    newMemStore(),
		clock:    &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
		gateway:  &fakeGateway{},
		docs:     &memDocuments{},
	}
	logger := zap.NewNop()
	w.rt = commands.Runtime{
		UoWFactory: memUoWFactory{s: w.store},
		Clock:      w.clock,
		Tokens:     &fakeTokens{},
		Documents:  w.docs,
		Effects:    commands.NewEffectRunner(w.notifier, w.gateway, logger),
		Logger:     logger,
		Policy:     commands.DefaultPolicy(),
	}
	return w
}

// activeAssignment reads through the runtime's factory, so it works over any store.
func (w *world) activeAssignment(subject assignment.Subject) *assignment.Assignment {
	a, err := w.rt.UoWFactory.Create().AssignmentRepository().FindActive(context.Background(), subject)
	if err != nil {
		return nil
	}
	return a
}

func (w *world) assignmentsOf(subject assignment.Subject) []*assignment.Assignment {
	res, _ := memAssignments{w.store}.ListBySubject(context.Background(), subject)
	return res
}

func (w *world) walletOf(ownerID kernel.UUID) *ledger.Wallet {
	return w.store.wallets[ownerID]
}

func (w *world) transactionsOf(ownerID kernel.UUID) []*ledger.Transaction {
	return slices.DeleteFunc(slices.Clone(w.store.transactions), func(tx *ledger.Transaction) bool {
		return !tx.OwnerID().IsEqual(ownerID)
	})
}
