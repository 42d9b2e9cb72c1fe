package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bondi/internal/models"
)

// PodRequest holds the fields needed to create a pod.
type PodRequest struct {
	Name           string         `validate:"required"`
	Type           models.PodType `validate:"required,oneof=ongoing temporary"`
	Members        []string
	IncludeCreator bool
	EndDate        *time.Time
}

// SharedExpenseRequest describes a shared expense to split across a pod.
// Percentages is consulted for the percentage method, Amounts for custom.
// RecordedBy is the member entering the expense; their streak advances.
type SharedExpenseRequest struct {
	Amount      decimal.Decimal
	Category    string
	Note        string
	Method      models.SplitMethod `validate:"required,oneof=equal percentage custom"`
	Percentages map[string]decimal.Decimal
	Amounts     map[string]decimal.Decimal
	RecordedBy  string `validate:"required"`
}

// CreatePod creates a shared group. Member names are normalized and deduped
// through a hash set, so repeated input collapses to one entry. The creator
// is a member unless excluded, in which case at least one other member must
// be supplied. Every member must be an existing user; each member's record
// gains a reference to the pod.
func (s *Service) CreatePod(creator string, req PodRequest) (*models.Pod, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	creatorUser, err := s.user(creator)
	if err != nil {
		return nil, err
	}

	memberSet := mapset.NewThreadUnsafeSet[string]()
	for _, raw := range req.Members {
		m := normalizeUsername(raw)
		if m != "" {
			memberSet.Add(m)
		}
	}
	if req.IncludeCreator {
		memberSet.Add(creatorUser.Username)
	}
	if memberSet.Cardinality() == 0 {
		return nil, fmt.Errorf("pod %q: %w", req.Name, ErrEmptyMembership)
	}

	members := memberSet.ToSlice()
	sort.Strings(members)

	doc := s.ledger.Document()
	for _, m := range members {
		if _, ok := doc.Users[m]; !ok {
			return nil, errorsNotFound("member", m)
		}
	}

	pod := &models.Pod{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		Members:   members,
		CreatedAt: s.now(),
		EndDate:   req.EndDate,
		Expenses:  []*models.SharedExpense{},
	}
	doc.Pods = append(doc.Pods, pod)
	for _, m := range members {
		doc.Users[m].PodIDs = append(doc.Users[m].PodIDs, pod.ID)
	}

	if err := s.ledger.Save(); err != nil {
		return nil, err
	}
	s.log.Infof("pod %q created with %d members", pod.Name, len(members))
	return pod, nil
}

// AddMember joins an existing user to a pod.
func (s *Service) AddMember(podID, username string) error {
	pod, err := s.Pod(podID)
	if err != nil {
		return err
	}
	user, err := s.user(username)
	if err != nil {
		return err
	}

	for _, m := range pod.Members {
		if m == user.Username {
			return fmt.Errorf("%s in pod %q: %w", user.Username, pod.Name, ErrDuplicateMember)
		}
	}
	pod.Members = append(pod.Members, user.Username)
	sort.Strings(pod.Members)
	user.PodIDs = append(user.PodIDs, pod.ID)

	return s.ledger.Save()
}

// Pod looks a pod up by ID.
func (s *Service) Pod(podID string) (*models.Pod, error) {
	for _, p := range s.ledger.Document().Pods {
		if p.ID == podID {
			return p, nil
		}
	}
	return nil, errorsNotFound("pod", podID)
}

// ActivePods lists the user's pods, leaving out temporary pods whose end
// date has passed. Expired pods stay in the document; the filtering happens
// at read time only.
func (s *Service) ActivePods(username string) ([]*models.Pod, error) {
	user, err := s.user(username)
	if err != nil {
		return nil, err
	}

	memberships := mapset.NewThreadUnsafeSet(user.PodIDs...)
	today := s.now().Format(dayFormat)

	var pods []*models.Pod
	for _, p := range s.ledger.Document().Pods {
		if !memberships.Contains(p.ID) {
			continue
		}
		if p.EndDate != nil && p.EndDate.Format(dayFormat) < today {
			continue
		}
		pods = append(pods, p)
	}
	return pods, nil
}

// AddSharedExpense splits an amount across the pod per the requested method
// and records the expense. The resulting shares always sum to the amount
// and cover every member exactly.
func (s *Service) AddSharedExpense(podID string, req SharedExpenseRequest) (*models.SharedExpense, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	pod, err := s.Pod(podID)
	if err != nil {
		return nil, err
	}
	recorder, err := s.user(req.RecordedBy)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("shared expense %s: %w", req.Amount, ErrInvalidAmount)
	}

	amount := req.Amount.Round(2)
	var split map[string]decimal.Decimal
	switch req.Method {
	case models.SplitEqual:
		split = SplitEqually(amount, pod.Members)
	case models.SplitPercentage:
		split, err = SplitByPercentage(amount, normalizeSplitKeys(req.Percentages))
	case models.SplitCustom:
		split, err = SplitCustomAmounts(amount, normalizeSplitKeys(req.Amounts))
	default:
		return nil, fmt.Errorf("split method %q: %w", req.Method, ErrInvalidSplit)
	}
	if err != nil {
		return nil, err
	}
	if err := checkCoverage(split, pod.Members); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	approvals := make(map[string]string, len(pod.Members))
	for _, m := range pod.Members {
		approvals[m] = models.ApprovalPending
	}

	expense := &models.SharedExpense{
		ID:        uuid.NewString(),
		Amount:    amount,
		Category:  category,
		Note:      strings.TrimSpace(req.Note),
		Date:      s.now(),
		Method:    req.Method,
		Split:     split,
		Approvals: approvals,
	}
	pod.Expenses = append(pod.Expenses, expense)
	s.recordActivity(recorder)

	if err := s.ledger.Save(); err != nil {
		return nil, err
	}
	s.log.Debugf("shared expense of %s added to pod %q (%s split)", amount, pod.Name, req.Method)
	return expense, nil
}

// normalizeSplitKeys rewrites split-map keys through the same username
// normalization the rest of the service applies, so "Ana" matches member
// "ana".
func normalizeSplitKeys(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[normalizeUsername(k)] = v
	}
	return out
}

// checkCoverage verifies the split names every pod member and nobody else.
func checkCoverage(split map[string]decimal.Decimal, members []string) error {
	if len(split) != len(members) {
		return fmt.Errorf("split names %d of %d members: %w", len(split), len(members), ErrIncompleteSplit)
	}
	for _, m := range members {
		if _, ok := split[m]; !ok {
			return fmt.Errorf("member %q missing from split: %w", m, ErrIncompleteSplit)
		}
	}
	return nil
}
