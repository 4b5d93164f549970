package sqlinline

// The brand kit is a singleton row keyed by a fixed id. Version defaults to 1
// and is carried for forward compatibility of the stored shape.

const QSelectBrandKit = `--sql f2b8da01-0063-4c03-8382-72f3992e136e
select logo, colors, version
from brand_kits
where id = $1::text
limit 1;
`

const QUpsertBrandKit = `--sql a73cf0a4-7eee-470a-ae57-8d52097489b9
insert into brand_kits(id, logo, colors, version, created_at, updated_at)
values ($1::text, $2::text, $3::text[], 1, now(), now())
on conflict (id) do update
set logo = excluded.logo,
    colors = excluded.colors,
    updated_at = now();
`

const QDeleteBrandKit = `--sql 8e9869f7-3bb9-41ca-9a8f-8bedd942a281
delete from brand_kits
where id = $1::text;
`
