package mcpserver

// DetailFormat describes the JSON returned by show_record.
const DetailFormat = `# Pokédex Detail Format

` + "`show_record`" + ` returns one JSON object:

` + "```" + `json
{
  "detail": {
    "id": 2,
    "name": "Ivysaur",
    "image": "https://.../official-artwork/2.png",
    "types": ["Grass", "Poison"],
    "weight": "13 kg",
    "height": "1 m",
    "abilities": "Overgrow, Chlorophyll",
    "species": "Seed Pokémon"
  },
  "evolution": {
    "nodes": [
      {"kind": "item", "name": "Bulbasaur", "image": "https://.../1.png"},
      {"kind": "arrow", "text": "→"},
      {"kind": "item", "name": "Ivysaur", "image": "https://.../2.png"},
      {"kind": "arrow", "text": "→"},
      {"kind": "item", "name": "Venusaur"}
    ]
  },
  "from_cache": false
}
` + "```" + `

## Fields

1. **weight / height** are the API's tenths converted to kilograms and metres.
2. **species** is the English genus, or ` + "`Unknown`" + ` when it could not be resolved.
3. **evolution** follows only the first branch of the chain. An item has an
   ` + "`image`" + ` only when that Pokémon is already loaded in the collection.
4. When the chain cannot be resolved, ` + "`evolution`" + ` is absent and
   ` + "`evolution_message`" + ` is ` + "`No evolution data available`" + `.
5. **from_cache** is true when the record was shown before in this session.

Only loaded Pokémon can be shown. Use ` + "`search_records`" + ` to pull a
specific Pokémon into the collection by exact name.
`
