package schema

type CompositeDisplayMode string

const (
	CompositeDisplayBasic        CompositeDisplayMode = "basic"
	CompositeDisplayGroupedLinks CompositeDisplayMode = "grouped_links"
	CompositeDisplayMulticolumn  CompositeDisplayMode = "multicolumn"
	CompositeDisplayChapters     CompositeDisplayMode = "chapters"
)

// Composite is the payload of a composite object: references to subobjects
// plus their placement. Subobject ids may be negative in drafts (new, unsaved
// subobjects); on the wire they are always positive.
type Composite struct {
	DisplayMode      CompositeDisplayMode `json:"display_mode" validate:"required,oneof=basic grouped_links multicolumn chapters"`
	NumerateChapters bool                 `json:"numerate_chapters"`
	Subobjects       []CompositeSubobject `json:"subobjects" validate:"dive"`
}

type CompositeSubobject struct {
	ObjectID        int  `json:"object_id" validate:"required"`
	Row             int  `json:"row" validate:"gte=0"`
	Column          int  `json:"column" validate:"gte=0"`
	SelectedTab     int  `json:"selected_tab" validate:"gte=0"`
	IsExpanded      bool `json:"is_expanded"`
	ShowDescription bool `json:"show_description"`
}

// NewComposite returns a valid empty composite payload.
func NewComposite() Composite {
	return Composite{DisplayMode: CompositeDisplayBasic, Subobjects: []CompositeSubobject{}}
}

func ValidateComposite(c Composite) error {
	return validateStruct(c)
}

// SubobjectIDs returns the referenced object ids in placement order.
func (c Composite) SubobjectIDs() []int {
	ids := make([]int, 0, len(c.Subobjects))
	for _, so := range c.Subobjects {
		ids = append(ids, so.ObjectID)
	}
	return ids
}
