package utils

import "testing"

func TestCollapseSpaces(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  flat  Warrior II  ", "flat Warrior II"},
		{"a\t b\n c", "a b c"},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := CollapseSpaces(c.in); got != c.want {
			t.Errorf("CollapseSpaces(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Warrior II", "warrior_ii"},
		{"Downward Dog", "downward_dog"},
		{"  Tree  ", "tree"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
