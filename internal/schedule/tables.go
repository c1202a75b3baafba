package schedule

// TotalUnits is the number of chapters in Tehillim.
const TotalUnits = 150

// Note values for the two halves of Psalm 119 in the monthly cycle.
const (
	NoteFirstHalf  = "פסוקים א-צו"
	NoteSecondHalf = "פסוקים צז-קעו"
)

// Monthly is the 30-day cycle, indexed by Hebrew day of month - 1.
// Days 25 and 26 both read Psalm 119, split by verse.
var Monthly = []Range{
	{Ordinal: 1, Start: 1, End: 9},
	{Ordinal: 2, Start: 10, End: 17},
	{Ordinal: 3, Start: 18, End: 22},
	{Ordinal: 4, Start: 23, End: 28},
	{Ordinal: 5, Start: 29, End: 34},
	{Ordinal: 6, Start: 35, End: 38},
	{Ordinal: 7, Start: 39, End: 43},
	{Ordinal: 8, Start: 44, End: 48},
	{Ordinal: 9, Start: 49, End: 54},
	{Ordinal: 10, Start: 55, End: 59},
	{Ordinal: 11, Start: 60, End: 65},
	{Ordinal: 12, Start: 66, End: 68},
	{Ordinal: 13, Start: 69, End: 71},
	{Ordinal: 14, Start: 72, End: 76},
	{Ordinal: 15, Start: 77, End: 78},
	{Ordinal: 16, Start: 79, End: 82},
	{Ordinal: 17, Start: 83, End: 87},
	{Ordinal: 18, Start: 88, End: 89},
	{Ordinal: 19, Start: 90, End: 96},
	{Ordinal: 20, Start: 97, End: 103},
	{Ordinal: 21, Start: 104, End: 105},
	{Ordinal: 22, Start: 106, End: 107},
	{Ordinal: 23, Start: 108, End: 112},
	{Ordinal: 24, Start: 113, End: 118},
	{Ordinal: 25, Start: 119, End: 119, Note: NoteFirstHalf},
	{Ordinal: 26, Start: 119, End: 119, Note: NoteSecondHalf},
	{Ordinal: 27, Start: 120, End: 134},
	{Ordinal: 28, Start: 135, End: 139},
	{Ordinal: 29, Start: 140, End: 144},
	{Ordinal: 30, Start: 145, End: 150},
}

// Weekly is the 7-day cycle, indexed by weekday (Sunday=0).
var Weekly = []Range{
	{Ordinal: 1, Start: 1, End: 29},
	{Ordinal: 2, Start: 30, End: 50},
	{Ordinal: 3, Start: 51, End: 72},
	{Ordinal: 4, Start: 73, End: 89},
	{Ordinal: 5, Start: 90, End: 106},
	{Ordinal: 6, Start: 107, End: 119},
	{Ordinal: 7, Start: 120, End: 150},
}

// Book is one of the five traditional books of Tehillim.
type Book struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Range Range  `json:"range"`
}

// Books lists the five books in order.
var Books = []Book{
	{ID: 1, Name: "ספר ראשון", Range: Range{Ordinal: 1, Start: 1, End: 41}},
	{ID: 2, Name: "ספר שני", Range: Range{Ordinal: 2, Start: 42, End: 72}},
	{ID: 3, Name: "ספר שלישי", Range: Range{Ordinal: 3, Start: 73, End: 89}},
	{ID: 4, Name: "ספר רביעי", Range: Range{Ordinal: 4, Start: 90, End: 106}},
	{ID: 5, Name: "ספר חמישי", Range: Range{Ordinal: 5, Start: 107, End: 150}},
}

// BookByID returns the book with the given id.
func BookByID(id int) (Book, bool) {
	for _, b := range Books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// MonthlyForDay returns the monthly assignment for a Hebrew day of month.
func MonthlyForDay(hebrewDay int) Range {
	return entry(Monthly, (hebrewDay-1)%len(Monthly))
}

// entry returns table[i], or the first entry when i is out of bounds.
func entry(table []Range, i int) Range {
	if i < 0 || i >= len(table) {
		return table[0]
	}
	return table[i]
}
