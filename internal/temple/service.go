package temple

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sharath018/temple-registry/internal/auditlog"
	"github.com/sharath018/temple-registry/internal/media"
	"github.com/sharath018/temple-registry/internal/metrics"
	"github.com/sharath018/temple-registry/internal/reports"
)

// Media is the slice of the media coordinator the registry depends on.
type Media interface {
	Upload(ctx context.Context, f media.File) (media.Asset, error)
	ReplaceCover(ctx context.Context, previous media.Asset, f media.File, commit func(media.Asset) error) (media.Asset, error)
	UploadBatch(ctx context.Context, files []media.File) media.BatchResult
	Discard(ctx context.Context, a media.Asset, reason string)
}

// Notifier pushes a message to a topic. Failures are logged by the caller.
type Notifier interface {
	Notify(ctx context.Context, topic, title, body string, data map[string]string) error
}

type Exporter interface {
	ExportTemples(format string, rows []reports.TempleRow) ([]byte, string, string, error)
}

type Service struct {
	Repo         Repository
	Guard        *Guard
	Media        Media
	AuditService auditlog.Service
	Cache        Cache
	Notifier     Notifier
	Exporter     Exporter
	Metrics      *metrics.Metrics
}

func NewService(repo Repository, m Media, as auditlog.Service) *Service {
	return &Service{
		Repo:         repo,
		Guard:        NewGuard(repo),
		Media:        m,
		AuditService: as,
		Cache:        NopCache{},
		Exporter:     reports.NewExporter(),
	}
}

// ========== AUDIT / NOTIFY HELPERS ==========

func (s *Service) audit(ctx context.Context, caller Caller, templeID *uint, action string, details map[string]interface{}, status string) {
	if s.AuditService == nil {
		return
	}
	actor := caller.ActorID
	entry := auditlog.Entry{ActorID: &actor, TempleID: templeID, Action: action, Details: details, IP: caller.IP, Status: status}
	if err := s.AuditService.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit log write failed")
	}
}

func (s *Service) notify(ctx context.Context, t *Temple, title, body string, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	topic := fmt.Sprintf("temple_%d", t.ID)
	if err := s.Notifier.Notify(ctx, topic, title, body, data); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("⚠️ push notification failed")
	}
}

func mediaError(err error, msg string) error {
	if errors.Is(err, media.ErrNotImage) || errors.Is(err, media.ErrTooLarge) || errors.Is(err, media.ErrEmptyFile) {
		return &Error{Kind: KindInvalidInput, Field: "image", Message: err.Error(), Err: err}
	}
	return upstream(msg, err)
}

// canEdit allows privileged callers and the active admin who registered the temple.
func canEdit(caller Caller, t *Temple) error {
	if caller.Privileged() {
		return nil
	}
	if caller.CanRegister() && t.RegisteredBy == caller.ActorID {
		return nil
	}
	return unauthorized("You are not allowed to modify this temple")
}

// loadEditable fetches a temple and checks the caller may modify it.
func (s *Service) loadEditable(ctx context.Context, caller Caller, id uint) (*Temple, error) {
	if id == 0 {
		return nil, invalid("templeId", "Invalid temple ID")
	}
	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canEdit(caller, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ========== CREATE ==========

// Create registers a new temple. Order: role gate, validation, uniqueness, cover
// upload, gallery uploads, persist. Nothing is uploaded for a rejected request.
func (s *Service) Create(ctx context.Context, caller Caller, req CreateRequest, cover *media.File, gallery []media.File) (t *Temple, err error) {
	defer func() { s.Metrics.ObserveOperation("create", err) }()

	if !caller.CanRegister() {
		return nil, unauthorized("Only active temple admins can register a temple")
	}

	req.normalize()
	if verr := req.Validate(); verr != nil {
		s.audit(ctx, caller, nil, "TEMPLE_CREATE_FAILED", map[string]interface{}{
			"temple_name": req.TempleName,
			"error":       verr.Error(),
		}, "failure")
		return nil, validationError(verr)
	}
	if cover == nil {
		return nil, invalid("coverImage", "Cover image is required")
	}

	t = req.toTemple()
	if err := s.Guard.CheckCreateConflicts(ctx, t); err != nil {
		return nil, err
	}

	coverAsset, err := s.Media.Upload(ctx, *cover)
	if err != nil {
		return nil, mediaError(err, "Failed to upload cover image")
	}
	t.CoverImage = coverAsset.URL
	t.CoverImageID = coverAsset.PublicID
	uploaded := []media.Asset{coverAsset}

	if len(gallery) > 0 {
		res := s.Media.UploadBatch(ctx, gallery)
		for _, a := range res.Uploaded {
			t.PhotoGallery = append(t.PhotoGallery, a.URL)
			t.MediaRefs = append(t.MediaRefs, MediaRef{URL: a.URL, PublicID: a.PublicID})
		}
		uploaded = append(uploaded, res.Uploaded...)
	}

	t.Slug = Slugify(t.TempleName)
	t.RegisteredBy = caller.ActorID
	verifyOnCreate(t, caller, strings.TrimSpace(req.VerificationRemarks))

	if err := s.Repo.Create(ctx, t); err != nil {
		for _, a := range uploaded {
			s.Media.Discard(ctx, a, "temple creation failed")
		}
		s.audit(ctx, caller, nil, "TEMPLE_CREATE_FAILED", map[string]interface{}{
			"temple_name": t.TempleName,
			"error":       err.Error(),
		}, "failure")
		return nil, err
	}

	action := "TEMPLE_CREATED"
	if t.IsVerified {
		action = "TEMPLE_CREATED_AUTO_VERIFIED"
		log.Info().Uint("temple_id", t.ID).Uint("actor_id", caller.ActorID).Msg("🎉 temple auto-verified on creation")
	}
	s.audit(ctx, caller, &t.ID, action, map[string]interface{}{
		"temple_name":   t.TempleName,
		"city":          t.Location.City,
		"slug":          t.Slug,
		"gallery_count": len(t.PhotoGallery),
		"is_verified":   t.IsVerified,
	}, "success")
	s.Cache.Invalidate(ctx, t.Slug)

	return t, nil
}

// ========== UPDATE ==========

// Update applies a sparse patch and returns the stored temple with the changed paths.
func (s *Service) Update(ctx context.Context, caller Caller, id uint, patch Patch) (t *Temple, changes Changes, err error) {
	defer func() { s.Metrics.ObserveOperation("update", err) }()

	existing, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return nil, nil, err
	}

	t, changes, err = Merge(existing, patch, caller)
	if err != nil {
		return nil, nil, err
	}
	if len(changes) == 0 {
		return t, changes, nil
	}

	if changes.Has("templeName") || changes.Has("location.city") ||
		changes.Has("contactDetails.email") || changes.Has("contactDetails.phone") {
		if err := s.Guard.CheckUpdateConflicts(ctx, t); err != nil {
			return nil, nil, err
		}
	}

	if err := s.Repo.Save(ctx, t); err != nil {
		s.audit(ctx, caller, &t.ID, "TEMPLE_UPDATE_FAILED", map[string]interface{}{"error": err.Error()}, "failure")
		return nil, nil, err
	}

	s.audit(ctx, caller, &t.ID, "TEMPLE_UPDATED", map[string]interface{}{
		"updated_fields": changes.Paths(),
	}, "success")
	s.Cache.Invalidate(ctx, existing.Slug, t.Slug)

	if changes.Has("isVerified") {
		s.audit(ctx, caller, &t.ID, "TEMPLE_VERIFIED", map[string]interface{}{"remarks": t.VerificationRemarks}, "success")
		s.notify(ctx, t, "Temple verified", t.TempleName+" is now verified", map[string]string{"slug": t.Slug})
	}
	return t, changes, nil
}

// Verify moves a temple to the verified state. Re-verifying only updates remarks.
func (s *Service) Verify(ctx context.Context, caller Caller, id uint, remarks string) (t *Temple, err error) {
	defer func() { s.Metrics.ObserveOperation("verify", err) }()

	if !caller.Privileged() {
		return nil, unauthorized("Only an active super admin can verify temples")
	}
	existing, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	t = existing.Clone()
	changes := Changes{}
	verified := true
	remarks = strings.TrimSpace(remarks)
	if remarks == "" && !existing.IsVerified && existing.VerificationRemarks == "" {
		remarks = DefaultVerificationRemark
	}
	if err := applyVerification(t, &verified, &remarks, caller, changes); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return t, nil
	}
	if err := s.Repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.audit(ctx, caller, &t.ID, "TEMPLE_VERIFIED", map[string]interface{}{
		"remarks":        t.VerificationRemarks,
		"updated_fields": changes.Paths(),
	}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	if changes.Has("isVerified") {
		s.notify(ctx, t, "Temple verified", t.TempleName+" is now verified", map[string]string{"slug": t.Slug})
	}
	return t, nil
}

// ========== READS ==========

func (s *Service) GetByAdmin(ctx context.Context, caller Caller) (*Temple, error) {
	actor := caller.ActorID
	t, err := s.Repo.FindOne(ctx, Filter{RegisteredBy: &actor})
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("Temple not found for this admin")
	}
	return t, err
}

func (s *Service) GetByID(ctx context.Context, id uint) (*Temple, error) {
	if id == 0 {
		return nil, invalid("templeId", "Invalid temple ID")
	}
	return s.Repo.FindByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Temple, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, invalid("slug", "Slug is required")
	}
	if t, ok := s.Cache.BySlug(ctx, slug); ok {
		return t, nil
	}
	t, err := s.Repo.FindOne(ctx, Filter{Slug: slug})
	if err != nil {
		return nil, err
	}
	s.Cache.SetBySlug(ctx, t)
	return t, nil
}

var cardColumns = []string{
	"id", "temple_name", "location_city", "location_state", "description", "cover_image", "slug", "created_at",
}

// PublicCards lists verified temples in their card projection, newest first.
func (s *Service) PublicCards(ctx context.Context) ([]Card, error) {
	if cards, ok := s.Cache.Cards(ctx); ok {
		return cards, nil
	}
	verified := true
	temples, err := s.Repo.Find(ctx, Query{
		Filter:  Filter{Verified: &verified},
		SortBy:  "createdAt",
		Desc:    true,
		Columns: cardColumns,
	})
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(temples))
	for i := range temples {
		cards = append(cards, temples[i].Card())
	}
	s.Cache.SetCards(ctx, cards)
	return cards, nil
}

// ListParams are the listing filters as received from the caller.
type ListParams struct {
	Page     int
	Limit    int
	City     string
	State    string
	Verified *bool
	SortBy   string
	Order    string
	Fields   []string
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// projectable maps selectable JSON field names to their columns.
var projectable = map[string][]string{
	"slug":                  {"slug"},
	"templeName":            {"temple_name"},
	"location":              {"location_address", "location_city", "location_state", "location_country"},
	"location.address":      {"location_address"},
	"location.city":         {"location_city"},
	"location.state":        {"location_state"},
	"location.country":      {"location_country"},
	"description":           {"description"},
	"history":               {"history"},
	"darshanTimings":        {"darshan_morning", "darshan_evening"},
	"activitiesAndServices": {"activities_and_services"},
	"contactDetails":        {"contact_email", "contact_phone", "contact_facebook", "contact_instagram", "contact_website"},
	"coverImage":            {"cover_image"},
	"photoGallery":          {"photo_gallery"},
	"specialCeremonies":     {"special_ceremonies"},
	"upcomingEvents":        {"upcoming_events"},
	"isVerified":            {"is_verified"},
	"verifiedBy":            {"verified_by"},
	"verificationRemarks":   {"verification_remarks"},
	"registeredBy":          {"registered_by"},
	"createdAt":             {"created_at"},
	"updatedAt":             {"updated_at"},
}

func (p *ListParams) normalize() error {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	// keeps (Page-1)*Limit from overflowing
	if p.Page > math.MaxInt32/p.Limit {
		return invalid("page", "Page is out of range")
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	if _, ok := sortColumns[p.SortBy]; !ok {
		return invalid("sortBy", "Unsupported sort field: "+p.SortBy)
	}
	switch strings.ToLower(p.Order) {
	case "", "desc":
		p.Order = "desc"
	case "asc":
		p.Order = "asc"
	default:
		return invalid("order", "Order must be asc or desc")
	}
	for _, f := range p.Fields {
		if _, ok := projectable[f]; !ok {
			return invalid("fields", "Unsupported field: "+f)
		}
	}
	return nil
}

func (p ListParams) columns() []string {
	if len(p.Fields) == 0 {
		return nil
	}
	cols := []string{"id", sortColumns[p.SortBy]}
	for _, f := range p.Fields {
		cols = append(cols, projectable[f]...)
	}
	return cols
}

// List returns one page of temples matching the filters, with pagination metadata.
func (s *Service) List(ctx context.Context, p ListParams) (*ListResult, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}
	filter := Filter{
		City:     strings.TrimSpace(p.City),
		State:    strings.TrimSpace(p.State),
		Verified: p.Verified,
	}

	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	temples, err := s.Repo.Find(ctx, Query{
		Filter:  filter,
		SortBy:  p.SortBy,
		Desc:    p.Order == "desc",
		Offset:  (p.Page - 1) * p.Limit,
		Limit:   p.Limit,
		Columns: p.columns(),
	})
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(temples))
	for i := range temples {
		row, err := project(&temples[i], p.Fields)
		if err != nil {
			return nil, upstream("Failed to encode temple", err)
		}
		rows = append(rows, row)
	}

	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))
	return &ListResult{
		Temples: rows,
		Pagination: Pagination{
			Total:       total,
			Page:        p.Page,
			Limit:       p.Limit,
			TotalPages:  totalPages,
			HasNextPage: p.Page < totalPages,
			HasPrevPage: p.Page > 1,
		},
	}, nil
}

// project renders t as JSON keys, keeping only fields (plus id) when any are given.
func project(t *Temple, fields []string) (map[string]any, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return full, nil
	}

	out := map[string]any{"id": full["id"]}
	for _, f := range fields {
		parent, child, nested := strings.Cut(f, ".")
		if !nested {
			out[f] = full[f]
			continue
		}
		src, _ := full[parent].(map[string]any)
		dst, ok := out[parent].(map[string]any)
		if !ok {
			dst = map[string]any{}
			out[parent] = dst
		}
		dst[child] = src[child]
	}
	return out, nil
}

// ========== MEDIA ==========

// ReplaceCoverImage stores a new cover, persists it, then schedules the old one for deletion.
func (s *Service) ReplaceCoverImage(ctx context.Context, caller Caller, id uint, f *media.File) (t *Temple, err error) {
	defer func() { s.Metrics.ObserveOperation("replace_cover", err) }()

	if f == nil {
		return nil, invalid("coverImage", "Cover image is required")
	}
	t, err = s.loadEditable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	previous := media.Asset{URL: t.CoverImage, PublicID: t.CoverImageID}

	_, err = s.Media.ReplaceCover(ctx, previous, *f, func(a media.Asset) error {
		t.CoverImage = a.URL
		t.CoverImageID = a.PublicID
		return s.Repo.Save(ctx, t)
	})
	if err != nil {
		return nil, asRegistryError(err, "Failed to upload cover image")
	}

	s.audit(ctx, caller, &t.ID, "COVER_IMAGE_REPLACED", map[string]interface{}{
		"previous": previous.URL,
		"current":  t.CoverImage,
	}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	return t, nil
}

// asRegistryError keeps registry errors (from the commit step) as they are.
func asRegistryError(err error, msg string) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return mediaError(err, msg)
}

// GalleryResult reports which uploads made it into the gallery.
type GalleryResult struct {
	AddedImages []string `json:"addedImages"`
	FailedFiles []string `json:"failedFiles,omitempty"`
}

// AddGalleryImages uploads files independently and commits the ones that succeed.
// It fails only when every upload fails.
func (s *Service) AddGalleryImages(ctx context.Context, caller Caller, id uint, files []media.File) (res *GalleryResult, err error) {
	defer func() { s.Metrics.ObserveOperation("add_gallery_images", err) }()

	if len(files) == 0 {
		return nil, invalid("photoGallery", "At least one image is required")
	}
	t, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	batch := s.Media.UploadBatch(ctx, files)
	if len(batch.Uploaded) == 0 {
		var cause error
		if len(batch.Failed) > 0 {
			cause = batch.Failed[0].Err
		}
		return nil, upstream("All image uploads failed", cause)
	}

	res = &GalleryResult{}
	for _, a := range batch.Uploaded {
		t.PhotoGallery = append(t.PhotoGallery, a.URL)
		t.MediaRefs = append(t.MediaRefs, MediaRef{URL: a.URL, PublicID: a.PublicID})
		res.AddedImages = append(res.AddedImages, a.URL)
	}
	for _, fe := range batch.Failed {
		res.FailedFiles = append(res.FailedFiles, fe.Filename)
	}

	if err := s.Repo.Save(ctx, t); err != nil {
		for _, a := range batch.Uploaded {
			s.Media.Discard(ctx, a, "gallery save failed")
		}
		return nil, err
	}

	s.audit(ctx, caller, &t.ID, "GALLERY_IMAGES_ADDED", map[string]interface{}{
		"added":  len(res.AddedImages),
		"failed": len(res.FailedFiles),
	}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	return res, nil
}

// RemoveGalleryImage takes one occurrence of url out of the gallery and
// schedules the remote asset for deletion once nothing references it. A
// remote failure never undoes the removal.
func (s *Service) RemoveGalleryImage(ctx context.Context, caller Caller, id uint, url string) (removed string, err error) {
	defer func() { s.Metrics.ObserveOperation("remove_gallery_image", err) }()

	url = strings.TrimSpace(url)
	if url == "" {
		return "", invalid("imageUrl", "Image URL is required")
	}
	t, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return "", err
	}

	gallery, _, err := RemoveByValue(t.PhotoGallery, url)
	if err != nil {
		return "", notFound("Image not found in gallery")
	}

	// Another gallery entry or the cover may point at the same asset.
	shared := slices.Contains(gallery, url) || t.CoverImage == url
	// Legacy rows have no stored id; the cleanup worker derives one from the URL.
	publicID, _ := t.PublicIDFor(url)

	t.PhotoGallery = gallery
	if !shared {
		t.dropMediaRef(url)
	}
	if err := s.Repo.Save(ctx, t); err != nil {
		return "", err
	}

	if !shared {
		s.Media.Discard(ctx, media.Asset{URL: url, PublicID: publicID}, "gallery image removed")
	}
	s.audit(ctx, caller, &t.ID, "GALLERY_IMAGE_REMOVED", map[string]interface{}{"image_url": url}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	return url, nil
}

// ========== SUB-COLLECTIONS ==========

func validateCeremony(c CeremonyInput) error {
	if err := c.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

func validateEvent(e EventInput) error {
	if err := e.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Service) AddCeremony(ctx context.Context, caller Caller, id uint, in CeremonyInput) (out []Ceremony, err error) {
	defer func() { s.Metrics.ObserveOperation("add_ceremony", err) }()

	if err := validateCeremony(in); err != nil {
		return nil, err
	}
	t, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	t.SpecialCeremonies, err = Append(t.SpecialCeremonies, in.toCeremony(), nil)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.audit(ctx, caller, &t.ID, "CEREMONY_ADDED", map[string]interface{}{"name": in.Name}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	return t.SpecialCeremonies, nil
}

func (s *Service) RemoveCeremony(ctx context.Context, caller Caller, id uint, index int) (removed Ceremony, err error) {
	defer func() { s.Metrics.ObserveOperation("remove_ceremony", err) }()

	t, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return Ceremony{}, err
	}
	t.SpecialCeremonies, removed, err = RemoveAt(t.SpecialCeremonies, index)
	if err != nil {
		return Ceremony{}, err
	}
	if err := s.Repo.Save(ctx, t); err != nil {
		return Ceremony{}, err
	}

	s.audit(ctx, caller, &t.ID, "CEREMONY_REMOVED", map[string]interface{}{"index": index, "name": removed.Name}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	return removed, nil
}

func (s *Service) AddEvent(ctx context.Context, caller Caller, id uint, in EventInput) (out []Event, err error) {
	defer func() { s.Metrics.ObserveOperation("add_event", err) }()

	if err := validateEvent(in); err != nil {
		return nil, err
	}
	t, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	ev := in.toEvent()
	t.UpcomingEvents, err = Append(t.UpcomingEvents, ev, nil)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.audit(ctx, caller, &t.ID, "EVENT_ADDED", map[string]interface{}{"title": ev.Title}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	if t.IsVerified {
		s.notify(ctx, t, "New event at "+t.TempleName, ev.Title, map[string]string{
			"slug":      t.Slug,
			"eventDate": ev.EventDate.Format(time.RFC3339),
		})
	}
	return t.UpcomingEvents, nil
}

func (s *Service) RemoveEvent(ctx context.Context, caller Caller, id uint, index int) (removed Event, err error) {
	defer func() { s.Metrics.ObserveOperation("remove_event", err) }()

	t, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return Event{}, err
	}
	t.UpcomingEvents, removed, err = RemoveAt(t.UpcomingEvents, index)
	if err != nil {
		return Event{}, err
	}
	if err := s.Repo.Save(ctx, t); err != nil {
		return Event{}, err
	}

	s.audit(ctx, caller, &t.ID, "EVENT_REMOVED", map[string]interface{}{"index": index, "title": removed.Title}, "success")
	s.Cache.Invalidate(ctx, t.Slug)
	return removed, nil
}

// ========== EXPORT ==========

const exportLimit = 10000

// Export renders the temples matching p as csv, xlsx or pdf. Paging is ignored.
func (s *Service) Export(ctx context.Context, caller Caller, format string, p ListParams) ([]byte, string, string, error) {
	if !caller.Privileged() {
		return nil, "", "", unauthorized("Only an active super admin can export temples")
	}
	p.Fields = nil
	if err := p.normalize(); err != nil {
		return nil, "", "", err
	}
	temples, err := s.Repo.Find(ctx, Query{
		Filter: Filter{City: p.City, State: p.State, Verified: p.Verified},
		SortBy: p.SortBy,
		Desc:   p.Order == "desc",
		Limit:  exportLimit,
	})
	if err != nil {
		return nil, "", "", err
	}

	rows := make([]reports.TempleRow, 0, len(temples))
	for _, t := range temples {
		rows = append(rows, reports.TempleRow{
			ID:        t.ID,
			Name:      t.TempleName,
			City:      t.Location.City,
			State:     t.Location.State,
			Verified:  t.IsVerified,
			Slug:      t.Slug,
			CreatedAt: t.CreatedAt,
		})
	}

	data, filename, contentType, err := s.Exporter.ExportTemples(format, rows)
	if err != nil {
		if errors.Is(err, reports.ErrUnsupportedFormat) {
			return nil, "", "", invalid("format", err.Error())
		}
		return nil, "", "", upstream("Failed to export temples", err)
	}
	return data, filename, contentType, nil
}
