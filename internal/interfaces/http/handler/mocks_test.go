package handler

import (
	"context"
	"net/http"

	"github.com/erp/dashboard/internal/application/auth"
	inventoryapp "github.com/erp/dashboard/internal/application/inventory"
	ledgerapp "github.com/erp/dashboard/internal/application/ledger"
	procurementapp "github.com/erp/dashboard/internal/application/procurement"
	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/domain/inventory"
	"github.com/erp/dashboard/internal/domain/ledger"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, email string, cookies []*http.Cookie) {
	m.Called(ctx, email, cookies)
}

func (m *mockAuthService) WhoAmI(ctx context.Context, cookies []*http.Cookie) (identity.Identity, error) {
	args := m.Called(ctx, cookies)
	return args.Get(0).(identity.Identity), args.Error(1)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Start(email string) (*http.Cookie, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Cookie), args.Error(1)
}

func (m *mockSessions) End(ctx context.Context, r *http.Request) *http.Cookie {
	return m.Called(ctx, r).Get(0).(*http.Cookie)
}

func (m *mockSessions) Marker(ctx context.Context, r *http.Request) string {
	return m.Called(ctx, r).String(0)
}

func (m *mockSessions) ForeignCookies(r *http.Request) []*http.Cookie {
	cookies, _ := m.Called(r).Get(0).([]*http.Cookie)
	return cookies
}

type mockCreditorService struct {
	mock.Mock
}

func (m *mockCreditorService) List(ctx context.Context, identity string) ledgerapp.CreditorList {
	return m.Called(ctx, identity).Get(0).(ledgerapp.CreditorList)
}

func (m *mockCreditorService) Add(ctx context.Context, identity string, in ledgerapp.AddCreditorInput) (ledgerapp.CreditorList, error) {
	args := m.Called(ctx, identity, in)
	return args.Get(0).(ledgerapp.CreditorList), args.Error(1)
}

func (m *mockCreditorService) RecordSettlement(ctx context.Context, identity, supplierName string, in ledger.SettlementInput) (ledgerapp.CreditorList, error) {
	args := m.Called(ctx, identity, supplierName, in)
	return args.Get(0).(ledgerapp.CreditorList), args.Error(1)
}

type mockReceivableService struct {
	mock.Mock
}

func (m *mockReceivableService) List(ctx context.Context, identity string) ledgerapp.ReceivableList {
	return m.Called(ctx, identity).Get(0).(ledgerapp.ReceivableList)
}

func (m *mockReceivableService) RecordPayment(ctx context.Context, identity, receivableID string, in ledger.PaymentInput) (ledgerapp.ReceivableList, error) {
	args := m.Called(ctx, identity, receivableID, in)
	return args.Get(0).(ledgerapp.ReceivableList), args.Error(1)
}

type mockThresholdService struct {
	mock.Mock
}

func (m *mockThresholdService) List(ctx context.Context, identity string) inventoryapp.ThresholdList {
	return m.Called(ctx, identity).Get(0).(inventoryapp.ThresholdList)
}

func (m *mockThresholdService) Summary(ctx context.Context, identity string) (inventory.Summary, bool) {
	args := m.Called(ctx, identity)
	return args.Get(0).(inventory.Summary), args.Bool(1)
}

func (m *mockThresholdService) Save(ctx context.Context, identity, id string, edit inventory.ThresholdEdit) (inventoryapp.ThresholdList, error) {
	args := m.Called(ctx, identity, id, edit)
	return args.Get(0).(inventoryapp.ThresholdList), args.Error(1)
}

type mockProcurementService struct {
	mock.Mock
}

func (m *mockProcurementService) List(ctx context.Context, identity string) procurementapp.List {
	return m.Called(ctx, identity).Get(0).(procurementapp.List)
}

func (m *mockProcurementService) Add(ctx context.Context, identity string, in procurementapp.AddInput) (procurementapp.List, error) {
	args := m.Called(ctx, identity, in)
	return args.Get(0).(procurementapp.List), args.Error(1)
}

func (m *mockProcurementService) Approve(ctx context.Context, identity, requestID string) (procurementapp.List, error) {
	args := m.Called(ctx, identity, requestID)
	return args.Get(0).(procurementapp.List), args.Error(1)
}

func (m *mockProcurementService) Reject(ctx context.Context, identity, requestID string) (procurementapp.List, error) {
	args := m.Called(ctx, identity, requestID)
	return args.Get(0).(procurementapp.List), args.Error(1)
}
