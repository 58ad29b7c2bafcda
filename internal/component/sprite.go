package component

// Character is the visual classification of an entity.
type Character uint8

const (
	CharacterSpawn Character = iota
	CharacterGrave
	CharacterNPC
	CharacterHero
	CharacterMonster
)

var glyphs = [...]byte{
	CharacterSpawn:   '*',
	CharacterGrave:   '+',
	CharacterNPC:     'n',
	CharacterHero:    'H',
	CharacterMonster: 'M',
}

// Glyph is the character code written to the framebuffer.
func (c Character) Glyph() byte {
	if int(c) < len(glyphs) {
		return glyphs[c]
	}
	return '?'
}

// Sprite is overwritten every tick by the sprite system.
type Sprite struct {
	Character Character
}
