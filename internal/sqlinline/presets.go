package sqlinline

const QListCustomPresets = `--sql 379ebee4-035f-4001-8657-ea2e915a187a
select id, name, template, created_at
from custom_presets
order by created_at asc;
`

const QSelectCustomPreset = `--sql 220b9bb1-124b-462e-a87e-158209e7acce
select id, name, template, created_at
from custom_presets
where id = $1::text
limit 1;
`

const QInsertCustomPreset = `--sql 22037a8c-6bf5-4041-8e38-4743739ab17c
insert into custom_presets(id, name, template, created_at, updated_at)
values ($1::text, $2::text, $3::text, now(), now());
`

const QDeleteCustomPreset = `--sql d7f98902-f4d6-440f-a3a4-0d9070439adf
delete from custom_presets
where id = $1::text;
`
