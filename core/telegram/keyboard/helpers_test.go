package keyboard

import "testing"

func TestColumn(t *testing.T) {
	if Column() != nil {
		t.Fatal("empty column must be nil")
	}
	m := Column(Button{"🛍 Catalog", "catalog"}, Button{"⚙️ Admin", "admin_panel"})
	if len(m.InlineKeyboard) != 2 || len(m.InlineKeyboard[0]) != 1 {
		t.Fatalf("layout = %+v", m.InlineKeyboard)
	}
	if b := m.InlineKeyboard[1][0]; b.Text != "⚙️ Admin" || b.Data != "admin_panel" || b.Unique != "" {
		t.Fatalf("button = %+v", b)
	}
}

func TestChunk(t *testing.T) {
	btns := []Button{{"a", "1"}, {"b", "2"}, {"c", "3"}}
	rows := Chunk(btns, 2)
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 1 {
		t.Fatalf("rows = %v", rows)
	}
	if len(Chunk(btns, 0)) != 3 {
		t.Fatal("n < 1 must yield one per row")
	}
	if m := Rows(rows...); len(m.InlineKeyboard[0]) != 2 {
		t.Fatalf("rows markup = %+v", m.InlineKeyboard)
	}
}
