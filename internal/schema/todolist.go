package schema

type ToDoSortType string

const (
	ToDoSortDefault ToDoSortType = "default"
	ToDoSortState   ToDoSortType = "state"
)

type ToDoItemState string

const (
	ToDoItemActive    ToDoItemState = "active"
	ToDoItemCompleted ToDoItemState = "completed"
	ToDoItemOptional  ToDoItemState = "optional"
	ToDoItemCancelled ToDoItemState = "cancelled"
)

// ToDoList is the payload of a to_do_list object. Item order is the
// user-defined order; state-sorting is a display concern.
type ToDoList struct {
	SortType ToDoSortType `json:"sort_type" validate:"required,oneof=default state"`
	Items    []ToDoItem   `json:"items" validate:"dive"`
}

type ToDoItem struct {
	ItemState  ToDoItemState `json:"item_state" validate:"required,oneof=active completed optional cancelled"`
	ItemText   string        `json:"item_text"`
	Commentary string        `json:"commentary"`
	Indent     int           `json:"indent" validate:"gte=0,lte=5"`
	IsExpanded bool          `json:"is_expanded"`
}

// NewToDoList returns a valid empty to-do list payload.
func NewToDoList() ToDoList {
	return ToDoList{SortType: ToDoSortDefault, Items: []ToDoItem{}}
}

func ValidateToDoList(l ToDoList) error {
	return validateStruct(l)
}
