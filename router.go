package passoffbot

import (
	"errors"
	"fmt"
	"strings"

	"passoffbot/store"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
)

// Action is a queue command name, matched case-sensitively.
type Action string

const (
	ActionWait       Action = "wait"
	ActionPassoff    Action = "passoff"
	ActionNevermind  Action = "nevermind"
	ActionQueue      Action = "queue"
	ActionNext       Action = "next"
	ActionClearQueue Action = "clearqueue"
	ActionCloseQueue Action = "closequeue"
)

// Role is the privilege an action requires.
type Role int

const (
	RoleAny Role = iota
	RoleTA
)

// Request is a parsed command invocation.
type Request struct {
	Action      string
	RequesterID string
	// Args are accepted but not used by any action yet.
	Args []string
}

// Response is the single reply of an invocation. Broadcast replies are
// visible to the whole channel, others only to the requester.
type Response struct {
	Text      string
	Broadcast bool
}

var ErrUnknownAction = errors.New("unrecognized action")

type handlerFunc func(r *Router, req Request) (Response, error)

type route struct {
	role   Role
	handle handlerFunc
}

var routes = map[Action]route{
	ActionWait:       {RoleAny, (*Router).handleWait},
	ActionPassoff:    {RoleAny, (*Router).handlePassoff},
	ActionNevermind:  {RoleAny, (*Router).handleNevermind},
	ActionQueue:      {RoleTA, (*Router).handleQueue},
	ActionNext:       {RoleTA, (*Router).handleNext},
	ActionClearQueue: {RoleTA, (*Router).handleClearQueue},
	ActionCloseQueue: {RoleTA, (*Router).handleCloseQueue},
}

// RoleOf returns the role required by action, and false if the action is unknown.
func RoleOf(action string) (Role, bool) {
	rt, ok := routes[Action(action)]
	return rt.role, ok
}

// MentionFunc renders a user id the way the chat platform links users.
type MentionFunc func(userID string) string

// SlackMention renders <@U123>.
func SlackMention(userID string) string {
	return "<@" + userID + ">"
}

// Router authorizes and dispatches requests to the queue.
type Router struct {
	queue     store.Queue
	roster    store.Roster
	localizer *i18n.Localizer
	mention   MentionFunc
	logger    *log.Logger
}

func NewRouter(q store.Queue, r store.Roster, localizer *i18n.Localizer, mention MentionFunc, logger *log.Logger) *Router {
	if mention == nil {
		mention = SlackMention
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Router{
		queue:     q,
		roster:    r,
		localizer: localizer,
		mention:   mention,
		logger:    logger,
	}
}

// Handle produces exactly one reply for req. A non-nil error means the reply
// is a fatal one that an operator needs to see; callers should exit non-zero.
func (r *Router) Handle(req Request) (Response, error) {
	logger := r.logger.WithFields(log.Fields{
		"action":       req.Action,
		"requester_id": req.RequesterID,
	})

	rt, ok := routes[Action(req.Action)]
	if !ok {
		logger.Warn("unrecognized action")
		return r.fatal(r.l("UnrecognizedAction", map[string]interface{}{
			"Action": req.Action,
			"Args":   fmt.Sprintf("%q", req.Args),
		})), fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	allowed, err := r.authorize(rt.role, req.RequesterID)
	if err != nil {
		logger.WithField("error", err).Error("cant check ta roster")
		return r.fatal(err.Error()), err
	}
	if !allowed {
		logger.Info("ta command denied")
		return r.private("TAOnly", nil), nil
	}

	resp, err := rt.handle(r, req)
	if err != nil {
		logger.WithField("error", err).Error("action failed")
		return r.fatal(err.Error()), err
	}

	logger.WithField("broadcast", resp.Broadcast).Debug("action handled")
	return resp, nil
}

// authorize is the only place roles are checked.
func (r *Router) authorize(role Role, userID string) (bool, error) {
	if role != RoleTA {
		return true, nil
	}
	return r.roster.IsTA(userID)
}

func (r *Router) handleWait(req Request) (Response, error) {
	size, err := r.queue.Size()
	if err != nil {
		return Response{}, err
	}

	text := r.l("Wait_Size", map[string]interface{}{"Size": size})

	pos, err := r.queue.Position(req.RequesterID)
	switch {
	case err == nil:
		text += " " + r.l("Wait_Position", map[string]interface{}{"Position": pos})
	case !errors.Is(err, store.ErrUserNotFound):
		return Response{}, err
	}

	return Response{Text: text}, nil
}

func (r *Router) handlePassoff(req Request) (Response, error) {
	has, err := r.queue.Has(req.RequesterID)
	if err != nil {
		return Response{}, err
	}
	if has {
		return r.private("Passoff_AlreadyInQueue", nil), nil
	}

	pos, err := r.queue.Add(req.RequesterID)
	if err != nil {
		r.logger.WithFields(log.Fields{
			"requester_id": req.RequesterID,
			"error":        err,
		}).Warn("cant add to queue")
		return r.private("Passoff_Failed", nil), nil
	}

	r.logger.WithFields(log.Fields{
		"requester_id": req.RequesterID,
		"position":     pos,
	}).Info("user added to queue")

	return r.broadcast("Passoff_Added", map[string]interface{}{"Position": pos}), nil
}

func (r *Router) handleNevermind(req Request) (Response, error) {
	has, err := r.queue.Has(req.RequesterID)
	if err != nil {
		return Response{}, err
	}
	if !has {
		return r.private("Nevermind_NotInQueue", nil), nil
	}

	if err := r.queue.Remove(req.RequesterID); err != nil {
		return Response{}, err
	}

	r.logger.WithField("requester_id", req.RequesterID).Info("user removed from queue")
	return r.private("Nevermind_Removed", nil), nil
}

func (r *Router) handleQueue(req Request) (Response, error) {
	users, err := r.queue.List()
	if err != nil {
		return Response{}, err
	}
	if len(users) == 0 {
		return r.private("Queue_Empty", nil), nil
	}

	return r.private("Queue_List", map[string]interface{}{
		"Size": len(users),
		"List": r.numbered(users),
	}), nil
}

func (r *Router) handleNext(req Request) (Response, error) {
	first, err := r.queue.Pick()
	if errors.Is(err, store.ErrQueueEmpty) {
		return r.private("Next_Empty", nil), nil
	}
	if err != nil {
		return Response{}, err
	}

	r.logger.WithFields(log.Fields{
		"requester_id": req.RequesterID,
		"user_id":      first,
	}).Info("user picked from queue")

	return r.broadcast("Next_Up", map[string]interface{}{
		"User": r.mention(first),
		"TA":   r.mention(req.RequesterID),
	}), nil
}

func (r *Router) handleClearQueue(req Request) (Response, error) {
	users, err := r.queue.List()
	if err != nil {
		return Response{}, err
	}
	if len(users) == 0 {
		return r.private("Queue_Empty", nil), nil
	}

	if err := r.queue.Clear(); err != nil {
		return Response{}, err
	}

	r.logger.WithFields(log.Fields{
		"requester_id": req.RequesterID,
		"cleared":      len(users),
	}).Info("queue cleared")

	return r.broadcast("ClearQueue_Cleared", map[string]interface{}{
		"Size": len(users),
		"List": r.numbered(users),
	}), nil
}

func (r *Router) handleCloseQueue(req Request) (Response, error) {
	users, err := r.queue.List()
	if err != nil {
		return Response{}, err
	}

	if err := r.queue.Clear(); err != nil {
		return Response{}, err
	}

	r.logger.WithFields(log.Fields{
		"requester_id": req.RequesterID,
		"cleared":      len(users),
	}).Info("queue closed")

	return r.broadcast("CloseQueue_Closed", map[string]interface{}{
		"List": r.numbered(users),
	}), nil
}

// numbered renders "0) <user>" lines, front first.
func (r *Router) numbered(users []string) string {
	lines := make([]string, len(users))
	for i, u := range users {
		lines[i] = fmt.Sprintf("%d) %s", i, r.mention(u))
	}
	return strings.Join(lines, "\n")
}

func (r *Router) private(key string, data map[string]interface{}) Response {
	return Response{Text: r.l(key, data)}
}

func (r *Router) broadcast(key string, data map[string]interface{}) Response {
	return Response{Text: r.l(key, data), Broadcast: true}
}

func (r *Router) fatal(msg string) Response {
	return Fatal(r.localizer, msg)
}

// Fatal is the operator-visible error reply. The invocation that emits it
// must terminate with a failure status.
func Fatal(localizer *i18n.Localizer, msg string) Response {
	text := localizer.MustLocalize(&i18n.LocalizeConfig{
		MessageID:    "FatalError",
		TemplateData: map[string]interface{}{"Error": msg},
	})
	return Response{Text: text}
}
